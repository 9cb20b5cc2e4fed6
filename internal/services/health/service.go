package health

import "time"

const (
	bannerMessage = "نظام الأرشفة الإلكترونية - مديرية زراعة صلاح الدين"
	Version       = "1.0.0"
)

// Status is the liveness payload.
type Status struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Banner identifies the running service.
type Banner struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// Service encapsulates health-related checks.
type Service struct {
	Now func() time.Time
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{Now: time.Now}
}

// Status returns a liveness payload. It does not touch the database or the model provider.
func (s *Service) Status() Status {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return Status{Status: "healthy", Timestamp: now().UTC()}
}

func (s *Service) Banner() Banner {
	return Banner{Message: bannerMessage, Version: Version, Status: "running"}
}
