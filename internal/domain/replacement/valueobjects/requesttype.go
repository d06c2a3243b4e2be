package valueobjects

// RequestType classifies a replacement request.
type RequestType string

const (
	TypeFreshSwap RequestType = "fresh-swap"
)

func (t RequestType) String() string {
	return string(t)
}

func (t RequestType) IsValid() bool {
	return t == TypeFreshSwap
}
