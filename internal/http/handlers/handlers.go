package handlers

import (
	intconfig "busline/internal/config"
	"busline/internal/http/middleware"
	"busline/internal/repositories"
	"busline/internal/services"
	"busline/internal/ticket"

	"github.com/gin-gonic/gin"
)

// Handlers carries process-wide configuration into the HTTP layer. The
// ticket signer is built once from the injected secret at startup.
type Handlers struct {
	Env    intconfig.Env
	Signer ticket.Signer
}

func New(env intconfig.Env) *Handlers {
	return &Handlers{
		Env:    env,
		Signer: ticket.NewSigner(env.TicketSecret),
	}
}

func (h *Handlers) ticketSvc(c *gin.Context) services.TicketService {
	return services.TicketService{
		BookingRepo:    repositories.BookingRepository{},
		TripRepo:       repositories.TripRepository{},
		Signer:         h.Signer,
		IssueOnPending: h.Env.IssueOnPending,
		RequestID:      middleware.GetRequestID(c),
	}
}

func (h *Handlers) validationSvc(c *gin.Context) services.ValidationService {
	return services.ValidationService{
		BookingRepo:      repositories.BookingRepository{},
		VerificationRepo: repositories.VerificationRepository{},
		Signer:           h.Signer,
		RequestID:        middleware.GetRequestID(c),
	}
}

func (h *Handlers) bookingSvc(c *gin.Context) services.BookingService {
	reqID := middleware.GetRequestID(c)
	return services.BookingService{
		BookingRepo: repositories.BookingRepository{},
		PaymentRepo: repositories.PaymentRepository{},
		TripRepo:    repositories.TripRepository{},
		TicketSvc:   h.ticketSvc(c),
		Notifier:    services.LogNotifier{RequestID: reqID},
		RequestID:   reqID,
	}
}

func (h *Handlers) docsSvc(c *gin.Context) services.DocsService {
	return services.DocsService{
		TicketSvc: h.ticketSvc(c),
		RequestID: middleware.GetRequestID(c),
	}
}
