package api

import "github.com/gin-gonic/gin"

// Every endpoint replies with a success-flagged envelope.

type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"ok"`
}

type DataResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorResponse{Success: false, Error: msg})
}

func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, MessageResponse{Success: true, Message: msg})
}

func Data(c *gin.Context, status int, data interface{}) {
	c.JSON(status, DataResponse{Success: true, Data: data})
}
