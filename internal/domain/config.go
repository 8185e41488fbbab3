package domain

// Configuration is the model input file: the time scale and the client dataset path
type Configuration struct {
	Monthly  bool   `yaml:"monthly" json:"monthly"`
	FilePath string `yaml:"filepath" json:"filepath"`
}

// Granularity derives the forecast granularity once from the monthly flag
func (c *Configuration) Granularity() Granularity {
	return GranularityFromMonthly(c.Monthly)
}
