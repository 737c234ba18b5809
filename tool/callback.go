package tool

import (
	"maps"

	"github.com/gin-gonic/gin"
)

// FastReturnFailure is the {success:false, message} body every mutating endpoint answers with on failure.
func FastReturnFailure(msg string) gin.H {
	return gin.H{
		"success": false,
		"message": msg,
	}
}

func FastReturnSuccess() gin.H {
	return gin.H{
		"success": true,
	}
}

func FastReturnSuccessWithData(data map[string]any) gin.H {
	resp := gin.H{
		"success": true,
	}
	maps.Copy(resp, data)
	return resp
}
