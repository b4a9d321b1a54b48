package response

import "sync"

// pool recycles Response objects across requests.
var pool = sync.Pool{
	New: func() interface{} {
		return &Response{}
	},
}

func acquire() *Response {
	return pool.Get().(*Response)
}

// Release resets the response and returns it to the pool. Call it
// after the response has been serialized; the object must not be used
// afterwards.
func Release(r *Response) {
	if r == nil {
		return
	}
	r.Code = 0
	r.HTTPCode = 0
	r.Message = ""
	r.Data = nil
	r.RequestID = ""
	pool.Put(r)
}
