package grade

// Graduation predicates, high to low.
const (
	PredicateCumLaude        = "Cum Laude"
	PredicateSangatMemuaskan = "Sangat Memuaskan"
	PredicateMemuaskan       = "Memuaskan"
	PredicateCukup           = "Cukup"
	PredicateKurang          = "Kurang"
)

// Classify maps a cumulative GPA to its graduation predicate. Bands are
// inclusive on their lower bound; exactly 3.0 is Sangat Memuaskan.
func Classify(ipk float64) string {
	switch {
	case ipk >= 3.5:
		return PredicateCumLaude
	case ipk >= 3.0:
		return PredicateSangatMemuaskan
	case ipk >= 2.75:
		return PredicateMemuaskan
	case ipk >= 2.0:
		return PredicateCukup
	default:
		return PredicateKurang
	}
}
