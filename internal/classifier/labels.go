package classifier

// Labels is the fixed set of diagnostic categories the classifier
// predicts. The index of a label is the class index in the model's output
// vector; the set is immutable for the process lifetime.
var Labels = []string{
	"Melanoma",
	"Basal Cell Carcinoma",
	"Squamous Cell Carcinoma",
	"Actinic Keratosis",
	"Benign Keratosis",
	"Dermatofibroma",
	"Melanocytic Nevus",
	"Vascular Lesion",
}

// IsLabel reports whether s is one of the fixed diagnostic categories.
func IsLabel(s string) bool {
	for _, l := range Labels {
		if l == s {
			return true
		}
	}
	return false
}
