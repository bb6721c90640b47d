package awclient

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

var ErrAPI = errors.New("gantry api")

// ErrAuthRequired signals that no usable session token is available. The
// workflow layer turns this into a sign-in prompt instead of issuing the
// call.
var ErrAuthRequired = errors.New("authentication required")

// ErrorResponse describes the JSON the backend responds with when an API
// call fails.
type ErrorResponse struct {
	Message string `json:"message"`
}

func toErrorFromResponse(resp *resty.Response) error {
	var errorResponse ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errorResponse); err != nil {
		return errors.Join(ErrAPI, fmt.Errorf("(HTTP Status: %d) - unable to parse json error response: %s", resp.StatusCode(), err))
	}

	return errors.Join(ErrAPI, fmt.Errorf("(HTTP Status: %d) - %s", resp.StatusCode(), errorResponse.Message))
}
