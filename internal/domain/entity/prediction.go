package entity

// Prediction — одна гипотеза классификатора
type Prediction struct {
	ClassName   string  `json:"class_name"`
	Probability float64 `json:"probability"`
}

// ClassNames возвращает имена классов в исходном порядке
func ClassNames(preds []Prediction) []string {
	names := make([]string, 0, len(preds))
	for _, p := range preds {
		names = append(names, p.ClassName)
	}
	return names
}
