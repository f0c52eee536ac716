package render

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// ErrDepthExceeded reports a render pass that recursed past the configured
// maximum nesting depth. Pathological token trees fail with this instead of
// exhausting the stack.
var ErrDepthExceeded = errors.New("render: maximum nesting depth exceeded")

const (
	depthExceededCode = "RENDER_DEPTH_EXCEEDED"
	detailsParseCode  = "RENDER_DETAILS_PARSE_FAILED"
)

func wrapDepthError(id string, depth int) error {
	return goerrors.Wrap(ErrDepthExceeded, goerrors.CategoryValidation,
		fmt.Sprintf("render pass %s reached depth %d", id, depth)).
		WithTextCode(depthExceededCode)
}

func wrapDetailsParseError(err error, id string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation,
		fmt.Sprintf("render pass %s failed to re-parse details body", id)).
		WithTextCode(detailsParseCode)
}
