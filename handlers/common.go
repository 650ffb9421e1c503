package handlers

type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined errors
	OKResponse           = Response{}
	NotFoundResponse     = Response{"not found"}
	ForbiddenResponse    = Response{"forbidden"}
	DBError1Response     = Response{"DB Error 1"}
	DBError2Response     = Response{"DB Error 2"}
	NotConnectedResponse = Response{"Owner not connected to Google"}
)
