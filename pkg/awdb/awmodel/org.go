package awmodel

// Department, CostCenter and Location are the three organizational axes an
// asset can be assigned along. Transfers snapshot both the current and the
// proposed assignment for each axis.

type Department struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (Department) TableName() string {
	return "departments"
}

type CostCenter struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

func (CostCenter) TableName() string {
	return "cost_centers"
}

type Location struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Site string `json:"site"`
}

func (Location) TableName() string {
	return "locations"
}
