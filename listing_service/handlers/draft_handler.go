package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/authorization"
	"github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/cache"
	"github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/data"
	"github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/wizard"
)

type KeyUpdate struct{}

// DraftHandler drives the authoring wizard over HTTP: one Redis-backed
// session per draft, step navigation, and the final publish.
type DraftHandler struct {
	logger    *log.Logger
	sessions  *cache.DraftCache
	publisher *data.DraftPublisher
	tracer    trace.Tracer
}

func NewDraftHandler(l *log.Logger, sessions *cache.DraftCache, publisher *data.DraftPublisher, t trace.Tracer) *DraftHandler {
	return &DraftHandler{
		logger:    l,
		sessions:  sessions,
		publisher: publisher,
		tracer:    t,
	}
}

// StartDraft opens a fresh session at the first step with an empty draft.
func (s *DraftHandler) StartDraft(rw http.ResponseWriter, h *http.Request) {
	ctx, span := s.tracer.Start(h.Context(), "DraftHandler.StartDraft")
	defer span.End()

	ownerId, err := authorization.ExtractUserId(h)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println("Unauthorized draft start:", err)
		http.Error(rw, "Unauthorized", http.StatusUnauthorized)
		return
	}

	session := wizard.NewSession(ownerId)
	if err := s.sessions.PostSession(ctx, session); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, "Error creating draft session", http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(http.StatusCreated)
	if err := session.ToJSON(rw); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println("Unable to convert to json:", err)
	}
}

func (s *DraftHandler) GetDraft(rw http.ResponseWriter, h *http.Request) {
	ctx, span := s.tracer.Start(h.Context(), "DraftHandler.GetDraft")
	defer span.End()

	session, ok := s.loadSession(ctx, rw, h)
	if !ok {
		return
	}

	if err := session.ToJSON(rw); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, "Unable to convert to json", http.StatusInternalServerError)
		s.logger.Println("Unable to convert to json:", err)
	}
}

// SelectStep jumps the session to any step. Deliberately unguarded: skipping
// ahead is allowed and the completed set stays as it was.
func (s *DraftHandler) SelectStep(rw http.ResponseWriter, h *http.Request) {
	ctx, span := s.tracer.Start(h.Context(), "DraftHandler.SelectStep")
	defer span.End()

	vars := mux.Vars(h)
	step, ok := wizard.ParseStep(vars["step"])
	if !ok {
		span.SetStatus(codes.Error, "Unknown step id")
		http.Error(rw, "Unknown step id", http.StatusBadRequest)
		return
	}

	session, found := s.loadSession(ctx, rw, h)
	if !found {
		return
	}

	session.Select(step)

	if err := s.sessions.PostSession(ctx, session); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, "Error saving draft session", http.StatusInternalServerError)
		return
	}

	if err := session.ToJSON(rw); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println("Unable to convert to json:", err)
	}
}

// NextStep merges the submitted fields, marks the current step complete and
// advances to the next step in the fixed order. No field validation ever
// blocks the transition.
func (s *DraftHandler) NextStep(rw http.ResponseWriter, h *http.Request) {
	ctx, span := s.tracer.Start(h.Context(), "DraftHandler.NextStep")
	defer span.End()

	update := h.Context().Value(KeyUpdate{}).(*wizard.DraftUpdate)

	session, ok := s.loadSession(ctx, rw, h)
	if !ok {
		return
	}

	session.Next(update)

	if err := s.sessions.PostSession(ctx, session); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, "Error saving draft session", http.StatusInternalServerError)
		return
	}

	if err := session.ToJSON(rw); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println("Unable to convert to json:", err)
	}
}

// SubmitDraft fans the accumulated draft out over the house collections and
// discards the session on success.
func (s *DraftHandler) SubmitDraft(rw http.ResponseWriter, h *http.Request) {
	ctx, span := s.tracer.Start(h.Context(), "DraftHandler.SubmitDraft")
	defer span.End()

	session, ok := s.loadSession(ctx, rw, h)
	if !ok {
		return
	}

	result := s.publisher.Publish(ctx, &session.Draft, session.OwnerId)
	if !result.Success {
		span.SetStatus(codes.Error, result.Error)
		s.logger.Print("Draft publish failed: ", result.Error)
		rw.WriteHeader(http.StatusInternalServerError)
		writeResult(rw, s.logger, result)
		return
	}

	if err := s.sessions.DelSession(ctx, session.ID); err != nil {
		s.logger.Println("Error deleting draft session:", err)
	}

	rw.WriteHeader(http.StatusCreated)
	writeResult(rw, s.logger, result)
}

// DiscardDraft drops the session and every accumulated field with it.
func (s *DraftHandler) DiscardDraft(rw http.ResponseWriter, h *http.Request) {
	ctx, span := s.tracer.Start(h.Context(), "DraftHandler.DiscardDraft")
	defer span.End()

	vars := mux.Vars(h)
	if err := s.sessions.DelSession(ctx, vars["id"]); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, "Error deleting draft session", http.StatusInternalServerError)
		return
	}
	rw.WriteHeader(http.StatusNoContent)
}

func (s *DraftHandler) loadSession(ctx context.Context, rw http.ResponseWriter, h *http.Request) (*wizard.Session, bool) {
	vars := mux.Vars(h)
	session, err := s.sessions.GetSession(ctx, vars["id"])
	if err != nil {
		s.logger.Println("Draft session not found:", err)
		http.Error(rw, "Draft session not found or expired", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func (s *DraftHandler) MiddlewareUpdateDeserialization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		update := &wizard.DraftUpdate{}
		err := update.FromJSON(h.Body)
		if err != nil {
			http.Error(rw, "Unable to decode json", http.StatusBadRequest)
			s.logger.Println(err)
			return
		}
		ctx := context.WithValue(h.Context(), KeyUpdate{}, update)
		h = h.WithContext(ctx)
		next.ServeHTTP(rw, h)
	})
}

func writeResult(rw http.ResponseWriter, logger *log.Logger, result data.PublishResult) {
	if err := json.NewEncoder(rw).Encode(result); err != nil {
		logger.Println("Error writing response:", err)
	}
}
