package orders

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusRefunded   Status = "REFUNDED"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusProcessing: true, StatusCompleted: true},
	StatusProcessing: {StatusCompleted: true, StatusRefunded: true},
	StatusCompleted:  {StatusRefunded: true},
	StatusRefunded:   {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
