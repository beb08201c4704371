package handler

import (
	"github.com/google/uuid"

	"schedule-service/internal/model"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

type CreateTaskRequest struct {
	Number   string `json:"number"`
	Plate    string `json:"plate" binding:"required"`
	Staff    string `json:"staff" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Location string `json:"location" binding:"required"`
	Service  string `json:"service" binding:"required"`
	Note     string `json:"note"`
	Color    string `json:"color"`
	Type     string `json:"type"`
}

type UpdateTaskRequest struct {
	Plate    *string           `json:"plate"`
	Staff    *string           `json:"staff"`
	Date     *string           `json:"date"`
	Time     *string           `json:"time"`
	Location *string           `json:"location"`
	Service  *string           `json:"service"`
	Note     *string           `json:"note"`
	Color    *string           `json:"color"`
	Type     *string           `json:"type"`
	Status   *model.TaskStatus `json:"status"`
}

type CreateCommentRequest struct {
	TaskID   string      `json:"taskId" binding:"required"`
	Content  string      `json:"content" binding:"required"`
	ParentID string      `json:"parentId"`
	Mentions []uuid.UUID `json:"mentions"`
}

type PostChatMessageRequest struct {
	Message  string      `json:"message" binding:"required"`
	Mentions []uuid.UUID `json:"mentions"`
}

type AddStaffRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

type AddServiceRequest struct {
	Name string `json:"name" binding:"required"`
}
