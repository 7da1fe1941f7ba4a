package model

// CellResult is the recorded outcome of one matrix cell.
type CellResult struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	RunID       string `gorm:"index"`
	Env         string
	Interpreter string
	State       string
	// DurationMS is the wall time of the cell in milliseconds.
	DurationMS int64
	// OutputTail is the trailing slice of the cell's transcript.
	OutputTail   string
	CoveragePath string
	ErrorMessage string
}

func (c CellResult) TableName() string {
	return "cell_results"
}
