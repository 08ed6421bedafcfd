package website

import (
	"fmt"

	"github.com/rotisserie/eris"
)

var errNotHTML = eris.New("website: response is not html")

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("website: unexpected status %d", e.code)
}
