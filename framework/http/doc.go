// Package http provides the request and response helpers used by the
// container inspector.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	var payload struct {
//	    Value string `json:"value"`
//	}
//	if err := req.Bind(&payload); err != nil { ... } // JSON only
//
//	name  := req.RouteParam("name")   // chi route parameter
//	full  := req.Query("full", "0")
//	token := req.BearerToken()
//
// # Response
//
//	res := gohttp.NewResponse(w)
//
//	res.JSON(200, data)           // raw JSON with status
//	res.Success(data)             // 200 {"data": ...}
//	res.Created(data)             // 201 {"data": ...}
//	res.NoContent()               // 204
//	res.Error(400, "Bad input")   // {"message": "Bad input"}
//	res.Unauthorized()            // 401
//	res.NotFound()                // 404
//	res.ValidationError(v.Errors()) // 422 {"errors": {...}}
//
// Container failures go through Fail, which picks the status from the error
// kind:
//
//	if _, err := c.LoadService(name); err != nil {
//	    res.Fail(err) // 404 for an unknown service, 500 for a broken definition
//	    return
//	}
package http
