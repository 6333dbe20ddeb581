package request_models

const (
	DefaultSessionLimit = 100
	MaxSessionLimit     = 1000
)

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func (p Pagination) Valid() bool {
	return p.Limit >= 1 && p.Limit <= MaxSessionLimit && p.Offset >= 0
}
