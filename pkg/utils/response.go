package utils

// ResponseData is the envelope used by every REST handler. Status is only
// used to set the HTTP status code; it is not serialized into the body.
type ResponseData struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results any    `json:"results,omitempty"`
}

// PanicIfNeeded panics with the given error so the recovery middleware can
// translate it into a proper HTTP response. Handlers use it to keep the
// happy path flat.
func PanicIfNeeded(err any) {
	if err != nil {
		panic(err)
	}
}
