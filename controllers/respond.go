// Package controllers holds the helpers shared by the gin handlers.
package controllers

import (
	"net/http"

	"github.com/ClaudioDevv/e-commerce/apperror"
	"github.com/ClaudioDevv/e-commerce/middleware"
	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/gin-gonic/gin"
)

// Actor returns the caller set by the auth middlewares; an empty one is a guest.
func Actor(c *gin.Context) models.Actor {
	return models.Actor{UserID: c.GetString(middleware.KeyUserID), Role: c.GetString(middleware.KeyRole)}
}

// Fail writes err as {"error": message} with the status of its kind. The cause
// is attached to the context for the request logger.
func Fail(c *gin.Context, err error) {
	c.Error(err)
	c.JSON(apperror.HTTPStatus(err), gin.H{"error": apperror.PublicMessage(err)})
}

func BadInput(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
}
