// Package http provides request and response helpers for JSON handlers.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	// Bind a JSON body into a struct
//	var payload struct {
//	    Name  string `json:"name"`
//	    Value string `json:"value"`
//	}
//	if err := req.Bind(&payload); err != nil { ... }
//
//	// Flat field map from a JSON object or a url-encoded/multipart form
//	values, err := req.Values()
//
// # Response
//
//	res := gohttp.NewResponse(w)
//
//	res.JSON(200, data)           // raw JSON with status
//	res.Success(data)             // 200 {"data": ...}
//	res.Error(400, "bad input")   // {"message": "bad input"}
//	res.NotFound()                // 404 {"message": "Not found."}
//	res.ValidationError(state)    // 422 {"message": "The given data was invalid.", "data": ...}
package http
