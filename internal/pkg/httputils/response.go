// Package httputils provides HTTP utility functions.
package httputils

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/ragchat/pkg/utils/errors"
	"github.com/kart-io/ragchat/pkg/utils/response"
)

// WriteResponse writes the response to the client.
// It handles both success and error cases, ensuring consistent response format.
func WriteResponse(c *gin.Context, err error, data interface{}) {
	if err != nil {
		resp := response.Err(errors.FromError(err))
		defer response.Release(resp)
		c.JSON(resp.HTTPStatus(), resp)
		return
	}

	resp := response.Success(data)
	defer response.Release(resp)
	c.JSON(resp.HTTPStatus(), resp)
}
