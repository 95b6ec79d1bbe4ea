package center

// Defaults returns the four Fjör centers seeded on first startup.
// The IDs double as the legacy per-center staff usernames.
func Defaults() []Center {
	return []Center{
		{
			ID:      "HAFNOFELO",
			Name:    "Fjör Hafnó",
			Color:   "#8B5CF6",
			Schools: []string{"Myllubakkaskóli", "Njarðvíkurskóli", "Heiðarskóli", "Holtaskóli"},
		},
		{
			ID:      "STAPAFELO",
			Name:    "Fjör Stapa",
			Color:   "#8B5CF6",
			Schools: []string{"Stapaskóli"},
		},
		{
			ID:      "AKURFELO",
			Name:    "Fjör Akur",
			Color:   "#EAB308",
			Schools: []string{"Akurskóli"},
		},
		{
			ID:      "HAALEITIFELO",
			Name:    "Fjör Háaleiti",
			Color:   "#EC4899",
			Schools: []string{"Háaleitisskóli"},
		},
	}
}
