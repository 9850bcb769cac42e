package response

import (
	"log"
	"net/http"
	"os"

	"anoa.com/pagebuilder/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// Error writes the standardized error body. The underlying cause is exposed
// in "stack" only outside production mode.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	body := gin.H{"message": apperror.Message(err)}
	if os.Getenv("APP_ENV") != "production" {
		body["stack"] = err.Error()
	}

	c.JSON(code, body)
}

// OK writes the {success, message} body shared by mutation endpoints.
func OK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}
