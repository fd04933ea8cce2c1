// Package workflow is the complaint lifecycle engine. Every state-changing
// operation validates and authorizes first, then performs the complaint
// mutation plus its history and notification side effects inside a single
// storage transaction. Email and push delivery happen after commit and are
// best effort.
package workflow

import (
	"io"
	"log"

	"projectpulse/backend/internal/apperr"
	"projectpulse/backend/internal/blob"
	"projectpulse/backend/internal/config"
	"projectpulse/backend/internal/mailer"
	"projectpulse/backend/internal/models"
	"projectpulse/backend/internal/notify"
	"projectpulse/backend/internal/storage"
)

// Pusher delivers a committed notification to the real-time channel.
// *notify.Publisher satisfies it; nil is allowed.
type Pusher interface {
	Push(n *models.Notification)
}

// Service handles the business logic for the complaint lifecycle.
type Service struct {
	Storage storage.Storage
	Push    Pusher
	Mail    mailer.Gateway
	Blob    blob.Uploader
}

// NewService creates a new lifecycle engine. Push, Mail and Blob may be nil;
// the corresponding side effects are then skipped.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// Attachment is one file submitted with a complaint.
type Attachment struct {
	Name    string
	Content io.Reader
}

// CreateInput carries the client submission.
type CreateInput struct {
	ProjectID   string
	Title       string
	Description string
	Category    models.Category
	Priority    models.Priority
	Attachments []Attachment
}

// Create submits a new complaint in PENDING and notifies the client.
// Attachment uploads run before the transaction; a failed upload is logged
// and the attachment omitted, it never blocks the submission.
func (s *Service) Create(clientID string, in CreateInput) (*models.Complaint, error) {
	if err := validateCreate(clientID, in); err != nil {
		return nil, err
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}

	var urls []string
	if s.Blob != nil {
		for _, a := range in.Attachments {
			url, err := s.Blob.Upload(a.Name, a.Content)
			if err != nil {
				log.Printf("ERROR: Failed to upload attachment %q: %v", a.Name, err)
				continue
			}
			urls = append(urls, url)
		}
	}

	complaint := &models.Complaint{
		ProjectID:   in.ProjectID,
		ClientID:    clientID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Priority:    in.Priority,
		Status:      models.StatusPending,
		Attachments: urls,
	}

	var created *models.Notification
	err := s.Storage.Transaction(func(tx storage.Storage) error {
		if err := tx.CreateComplaint(complaint); err != nil {
			return apperr.Storage(err, "create complaint")
		}
		if err := tx.CreateHistory(&models.ComplaintHistory{
			ComplaintID: complaint.ID,
			Status:      models.StatusPending,
			Message:     "Complaint submitted",
			UserID:      clientID,
		}); err != nil {
			return apperr.Storage(err, "create history")
		}
		n, err := notify.Create(tx, clientID,
			"Your complaint \""+complaint.Title+"\" was submitted",
			models.NotifyComplaintSubmitted,
			notify.SubmissionMeta{ComplaintID: complaint.ID, ProjectID: complaint.ProjectID})
		if err != nil {
			return err
		}
		created = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.pushAll(created)
	s.sendMail(mailer.TemplateSubmitted, clientID, map[string]string{
		"Title": complaint.Title,
	})
	return complaint, nil
}

// Get returns a complaint by id. Read-only; visibility is unrestricted for
// any authenticated caller.
func (s *Service) Get(id string) (*models.Complaint, error) {
	c, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return nil, apperr.Storage(err, "get complaint")
	}
	if c == nil {
		return nil, apperr.NotFound("complaint %s not found", id)
	}
	return c, nil
}

// History returns the audit trail for a complaint.
func (s *Service) History(id string) ([]models.ComplaintHistory, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	out, err := s.Storage.GetComplaintHistory(id)
	if err != nil {
		return nil, apperr.Storage(err, "get history")
	}
	return out, nil
}

// Responses returns the timeline messages for a complaint.
func (s *Service) Responses(id string) ([]models.Response, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	out, err := s.Storage.GetComplaintResponses(id)
	if err != nil {
		return nil, apperr.Storage(err, "get responses")
	}
	return out, nil
}

// List returns complaints matching the filter.
func (s *Service) List(filter storage.ComplaintFilter) ([]models.Complaint, error) {
	out, err := s.Storage.ListComplaints(filter)
	if err != nil {
		return nil, apperr.Storage(err, "list complaints")
	}
	return out, nil
}

func validateCreate(clientID string, in CreateInput) error {
	switch {
	case clientID == "":
		return apperr.Validation("client id is required")
	case in.ProjectID == "":
		return apperr.Validation("project id is required")
	case in.Title == "":
		return apperr.Validation("title is required")
	case len(in.Title) > config.MaxTitleLen:
		return apperr.Validation("title exceeds %d characters", config.MaxTitleLen)
	case in.Description == "":
		return apperr.Validation("description is required")
	case len(in.Description) > config.MaxDescriptionLen:
		return apperr.Validation("description exceeds %d characters", config.MaxDescriptionLen)
	case !in.Category.Valid():
		return apperr.Validation("invalid category %q", in.Category)
	case in.Priority != "" && !in.Priority.Valid():
		return apperr.Validation("invalid priority %q", in.Priority)
	case len(in.Attachments) > config.MaxAttachments:
		return apperr.Validation("at most %d attachments are allowed", config.MaxAttachments)
	}
	return nil
}

// pushAll forwards committed notifications to the push channel.
func (s *Service) pushAll(ns ...*models.Notification) {
	if s.Push == nil {
		return
	}
	for _, n := range ns {
		if n != nil {
			s.Push.Push(n)
		}
	}
}

// sendMail delivers a templated email to a user, fire-and-forget. The user
// lookup and the send both only log on failure.
func (s *Service) sendMail(templateName, userID string, params map[string]string) {
	if s.Mail == nil {
		return
	}
	user, err := s.Storage.GetUserByID(userID)
	if err != nil || user == nil || user.Email == "" {
		return
	}
	if params == nil {
		params = map[string]string{}
	}
	params["Name"] = user.Name
	go func() {
		if err := s.Mail.Send(templateName, user.Email, params); err != nil {
			log.Printf("ERROR: Failed to send %q email to %s: %v", templateName, user.Email, err)
		}
	}()
}
