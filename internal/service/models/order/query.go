package order

// QueryOrdersModel represents filter parameters for querying orders.
// An empty Status means all statuses.
type QueryOrdersModel struct {
	Status Status
	Limit  int
	Offset int
}
