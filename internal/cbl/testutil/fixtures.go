package testutil

// WellIndentedProgram is a CBL program whose indentation already satisfies
// the structural rules. Reindenting it must change nothing.
const WellIndentedProgram = `; vector utilities
(defun @vec-sum ((v (Vector Integer))) Integer
   (registers ($acc Integer) ($i Nat))
   (start begin:
    (set-register! $acc 0)
    (set-register! $i 0)
    (jump loop:))
   (defblock loop:
    (branch (< $i (vector-size v))
     body:
     done:))
   (defblock body:
    (set-register! $acc (+ $acc (vector-get v $i)))
    (set-register! $i (+ $i 1))
    (jump loop:))
   (defblock done:
    (return $acc)))

(defun @main () Unit
   (start start:
    (let total (funcall @vec-sum (vector 1 2 3)))
    (print (show total))
    (return ())))
`

// MisindentedProgram carries the same forms as WellIndentedProgram's second
// procedure but with every continuation line flushed left.
const MisindentedProgram = `(defun @main () Unit
(start start:
(let total (funcall @vec-sum (vector 1 2 3)))
(print (show total))
(return ())))
`

// MisindentedProgramFixed is MisindentedProgram after reindenting.
const MisindentedProgramFixed = `(defun @main () Unit
   (start start:
    (let total (funcall @vec-sum (vector 1 2 3)))
    (print (show total))
    (return ())))
`
