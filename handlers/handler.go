package handlers

import (
	"context"
	"time"

	"github.com/finmentor/backend/services"
	"github.com/sirupsen/logrus"
)

// Uploader publishes a generated file and returns a link to it
type Uploader interface {
	UploadFile(ctx context.Context, data []byte, filename string, contentType string) (string, error)
}

// Deps are the services the HTTP layer is built from. Store, Uploader and
// Line may be nil.
type Deps struct {
	Store       services.Store
	Advisor     *services.Advisor
	ChatLog     *services.ChatLogger
	Hustles     *services.SideHustleMatcher
	Uploader    Uploader
	Line        *LineWebhookHandler
	Log         *logrus.Logger
	CORSOrigins []string
}

// APIHandler serves the JSON API
type APIHandler struct {
	store    services.Store
	advisor  *services.Advisor
	chatLog  *services.ChatLogger
	hustles  *services.SideHustleMatcher
	detector *services.Detector
	export   *services.ExportService
	uploader Uploader
	log      *logrus.Logger
	now      func() time.Time
}

func NewAPIHandler(d Deps) *APIHandler {
	h := &APIHandler{
		store:    d.Store,
		advisor:  d.Advisor,
		chatLog:  d.ChatLog,
		hustles:  d.Hustles,
		uploader: d.Uploader,
		log:      d.Log,
		now:      time.Now,
	}
	if h.advisor == nil {
		h.advisor = services.NewAdvisor(nil, d.Log)
	}
	if h.chatLog == nil {
		h.chatLog = services.NewChatLogger(d.Store, d.Log)
	}
	if h.hustles == nil {
		h.hustles = services.NewSideHustleMatcher()
	}
	if d.Store != nil {
		h.detector = services.NewDetector(d.Store, d.Log)
		h.export = services.NewExportService(d.Store)
	}
	return h
}
