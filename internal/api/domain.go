package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

// Response represents a generic API response for success or error messages.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Operation successful"`
	Error   string `json:"error,omitempty" example:"Resource not found"`
}

// ValidationResponse is returned with 400 when input fails field validation.
type ValidationResponse struct {
	Success bool              `json:"success" example:"false"`
	Error   string            `json:"error" example:"validation failed"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// SignUpRequest represents the expected JSON body for registration.
type SignUpRequest struct {
	Name         string  `json:"name" validate:"required,max=120" example:"Ada Lovelace"`
	Email        string  `json:"email" validate:"required,email" example:"ada@example.com"`
	Password     string  `json:"password" validate:"required,min=8,max=72" example:"Str0ngP@ss!"`
	Headline     *string `json:"headline,omitempty" validate:"omitempty,max=200"`
	Location     *string `json:"location,omitempty" validate:"omitempty,max=120"`
	PortfolioURL *string `json:"portfolioUrl,omitempty" validate:"omitempty,url"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email" example:"ada@example.com"`
	Password string `json:"password" validate:"required" example:"Str0ngP@ss!"`
}

// AuthResponse is returned by sign-up and sign-in alongside the session cookie.
type AuthResponse struct {
	Success bool              `json:"success"`
	User    types.UserSummary `json:"user"`
}

type SessionResponse struct {
	UserID    uuid.UUID `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordResponse never reveals whether the email exists. ResetToken is
// only populated in development mode, where no mail delivery exists.
type ForgotPasswordResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	ResetToken string `json:"resetToken,omitempty"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

type CreateResumeRequest struct {
	Role            string `json:"role" example:"Backend Developer"`
	ExperienceLevel string `json:"experienceLevel" example:"Mid-Level"`
	TargetRole      string `json:"targetRole,omitempty"`
}

// UpdateResumeRequest carries the wizard content. Content may be an object or
// a JSON string holding one.
type UpdateResumeRequest struct {
	Content json.RawMessage    `json:"content"`
	Role    string             `json:"role,omitempty"`
	Status  types.ResumeStatus `json:"status,omitempty"`
}

type AttachJobDescriptionRequest struct {
	Text string `json:"text"`
}

// WizardStateResponse describes the wizard after loading or a transition.
type WizardStateResponse struct {
	Steps       []types.StepConfig    `json:"steps,omitempty"`
	CurrentStep int                   `json:"currentStep"`
	StepID      string                `json:"stepId"`
	TotalSteps  int                   `json:"totalSteps"`
	Content     *types.ResumeDocument `json:"content"`
	Submitted   bool                  `json:"submitted"`
	Errors      map[string]string     `json:"errors,omitempty"`
}

type WizardTransitionRequest struct {
	Role        string          `json:"role"`
	CurrentStep int             `json:"currentStep" validate:"min=0"`
	Action      string          `json:"action" validate:"required,oneof=next back add remove"`
	Section     string          `json:"section,omitempty"`
	Index       int             `json:"index,omitempty" validate:"min=0"`
	Content     json.RawMessage `json:"content"`
}

type RewriteBulletRequest struct {
	Bullet string `json:"bullet" validate:"required,max=2000"`
	Role   string `json:"role"`
}

type RewriteSummaryRequest struct {
	Content json.RawMessage `json:"content"`
	Role    string          `json:"role"`
}

type TextResponse struct {
	Text string `json:"text"`
}
