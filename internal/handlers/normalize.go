package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/smartkuk/simple-flask/internal/users"
)

// Messages returned when a create request cannot be turned into a record.
const (
	msgJSONRequired   = "Http header application/json is required"
	msgInvalidJSON    = "invalid JSON body"
	msgInvalidForm    = "invalid form body"
	msgUserIDRequired = "user_id is required"
	msgBodyTooLarge   = "request body too large"
)

var errTrailingData = errors.New("unexpected data after JSON object")

// Form field names used by the HTML form.
const (
	formFieldUserID   = "userId"
	formFieldUserName = "userName"
	formFieldCountry  = "country"

	maxMultipartMemory = 1 << 20
)

// inputKind records which payload shape a create request used.
type inputKind int

const (
	inputJSON inputKind = iota + 1
	inputForm
)

func (k inputKind) String() string {
	switch k {
	case inputJSON:
		return "json"
	case inputForm:
		return "form"
	default:
		return "unknown"
	}
}

// badRequestError is a create request that failed normalization.
type badRequestError struct {
	message string
	cause   error
}

func (e *badRequestError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *badRequestError) Unwrap() error { return e.cause }

func badRequest(message string, cause error) error {
	return &badRequestError{message: message, cause: cause}
}

// createRequest is the JSON body accepted by POST /users. Every field is
// optional at the decoding stage.
type createRequest struct {
	UserID   *string `json:"user_id"`
	UserName *string `json:"user_name"`
	Country  *string `json:"country"`
}

// decodeUser normalizes a create request into a candidate record. JSON bodies
// are used when the declared media type is JSON; otherwise the form must carry
// userId and userName. The body is capped at maxBytes.
func decodeUser(w http.ResponseWriter, r *http.Request, maxBytes int64) (users.User, inputKind, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	mediaType := requestMediaType(r)

	if isJSONMediaType(mediaType) {
		var req createRequest
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&req); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field != "" {
				return users.User{}, inputJSON, badRequest(typeErr.Field+" must be a string", err)
			}
			return users.User{}, inputJSON, bodyError(msgInvalidJSON, err)
		}
		// The body must hold exactly one JSON value.
		if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
			if err == nil {
				err = errTrailingData
			}
			return users.User{}, inputJSON, bodyError(msgInvalidJSON, err)
		}
		if req.UserID == nil || *req.UserID == "" {
			return users.User{}, inputJSON, badRequest(msgUserIDRequired, nil)
		}
		return users.New(*req.UserID, req.UserName, req.Country), inputJSON, nil
	}

	var err error
	switch mediaType {
	case "application/x-www-form-urlencoded":
		err = r.ParseForm()
	case "multipart/form-data":
		err = r.ParseMultipartForm(maxMultipartMemory)
	}
	if err != nil {
		return users.User{}, inputForm, bodyError(msgInvalidForm, err)
	}

	form := r.PostForm
	if !form.Has(formFieldUserID) || !form.Has(formFieldUserName) {
		return users.User{}, 0, badRequest(msgJSONRequired, nil)
	}
	id := form.Get(formFieldUserID)
	if id == "" {
		return users.User{}, inputForm, badRequest(msgUserIDRequired, nil)
	}
	name := form.Get(formFieldUserName)
	var country *string
	if form.Has(formFieldCountry) {
		c := form.Get(formFieldCountry)
		country = &c
	}
	return users.New(id, &name, country), inputForm, nil
}

func bodyError(message string, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return badRequest(msgBodyTooLarge, err)
	}
	return badRequest(message, err)
}

func requestMediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return mt
}

// isJSONMediaType accepts application/json and structured +json types.
func isJSONMediaType(mt string) bool {
	return mt == "application/json" ||
		(strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"))
}
