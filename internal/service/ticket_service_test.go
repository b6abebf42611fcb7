package service

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/helpdeskd/helpdesk/internal/auth"
	"github.com/helpdeskd/helpdesk/internal/domain"
	"github.com/helpdeskd/helpdesk/internal/events"
	"github.com/helpdeskd/helpdesk/internal/repository"
	"github.com/helpdeskd/helpdesk/internal/service/mocks"
	apperrors "github.com/helpdeskd/helpdesk/pkg/util"
)

func testPrincipal(userID string, superuser bool, memberships ...domain.DepartmentMember) *auth.Principal {
	return &auth.Principal{
		User:        &domain.User{ID: userID, IsSuperuser: superuser, Active: true},
		Memberships: memberships,
	}
}

func deptMembership(userID, deptID string, role domain.MemberRole) domain.DepartmentMember {
	return domain.DepartmentMember{
		UserID:           userID,
		DepartmentID:     deptID,
		Role:             role,
		IsActive:         true,
		CanAssignTickets: role.IsLeadOrHigher(),
		CanCloseTickets:  role.IsLeadOrHigher(),
	}
}

type recordedEvents struct {
	events []events.Event
}

func (r *recordedEvents) Publish(_ context.Context, e events.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) Subscribe(events.EventType, events.EventHandler) {}

func (r *recordedEvents) typesSeen() []events.EventType {
	var types []events.EventType
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

func newTicketServiceForTest(deps TicketDependencies) *TicketService {
	if deps.SLA == nil {
		deps.SLA = NewSLAService(&mocks.MockSLARepository{})
	}
	return NewTicketService(deps)
}

func TestCreateTicket(t *testing.T) {
	ctx := context.Background()
	urgent := domain.TicketPriorityUrgent

	t.Run("defaults, SLA deadlines and created event", func(t *testing.T) {
		recorder := &recordedEvents{}
		var created *domain.Ticket
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo: &mocks.MockTicketRepository{
				CreateFunc: func(ctx context.Context, ticket *domain.Ticket) error {
					ticket.ID = "t-1"
					created = ticket
					return nil
				},
			},
			CommentRepo:  &mocks.MockCommentRepository{},
			HistoryRepo:  &mocks.MockHistoryRepository{},
			CategoryRepo: &mocks.MockCategoryRepository{},
			RatingRepo:   &mocks.MockRatingRepository{},
			SLA: NewSLAService(&mocks.MockSLARepository{
				ListActiveFunc: func(ctx context.Context) ([]domain.SLAPolicy, error) {
					return []domain.SLAPolicy{{ID: "p-1", ResponseHours: 8, ResolutionHours: 72, IsActive: true}}, nil
				},
			}),
			Dispatcher: recorder,
		})

		ticket, err := svc.CreateTicket(ctx, testPrincipal("user-1", false), TicketCreateInput{
			Title:       "  Printer broken  ",
			Description: "The office printer shows error E4",
		})

		assert.NoError(t, err)
		assert.Equal(t, created, ticket)
		assert.Equal(t, "Printer broken", ticket.Title)
		assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
		assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
		assert.Equal(t, domain.AssignmentUnassigned, ticket.AssignmentType)
		assert.NotEmpty(t, ticket.ExternalKey)
		assert.NotNil(t, ticket.SLAResolutionDeadline)
		assert.Equal(t, ticket.SLAResolutionDeadline, ticket.DueDate)
		assert.Equal(t, []events.EventType{events.EventTicketCreated}, recorder.typesSeen())
	})

	t.Run("keyword category suggestion", func(t *testing.T) {
		var created *domain.Ticket
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo: &mocks.MockTicketRepository{
				CreateFunc: func(ctx context.Context, ticket *domain.Ticket) error {
					created = ticket
					return nil
				},
			},
			CommentRepo: &mocks.MockCommentRepository{},
			HistoryRepo: &mocks.MockHistoryRepository{},
			CategoryRepo: &mocks.MockCategoryRepository{
				ListActiveFunc: func(ctx context.Context) ([]domain.Category, error) {
					return []domain.Category{
						{ID: "cat-hw", Name: "Hardware", Keywords: []string{"printer", "laptop"}, IsActive: true},
						{ID: "cat-net", Name: "Network", Keywords: []string{"vpn", "wifi"}, IsActive: true},
					}, nil
				},
			},
			RatingRepo: &mocks.MockRatingRepository{},
		})

		_, err := svc.CreateTicket(ctx, testPrincipal("user-1", false), TicketCreateInput{
			Title:       "Laptop will not boot",
			Description: "Screen stays black",
			Priority:    urgent,
		})

		assert.NoError(t, err)
		assert.NotNil(t, created.CategoryID)
		assert.Equal(t, "cat-hw", *created.CategoryID)
	})

	t.Run("no suggestion leaves category empty", func(t *testing.T) {
		var created *domain.Ticket
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo: &mocks.MockTicketRepository{
				CreateFunc: func(ctx context.Context, ticket *domain.Ticket) error {
					created = ticket
					return nil
				},
			},
			CommentRepo: &mocks.MockCommentRepository{},
			HistoryRepo: &mocks.MockHistoryRepository{},
			CategoryRepo: &mocks.MockCategoryRepository{
				ListActiveFunc: func(ctx context.Context) ([]domain.Category, error) {
					return []domain.Category{{ID: "cat-hw", Keywords: []string{"printer"}, IsActive: true}}, nil
				},
			},
			RatingRepo: &mocks.MockRatingRepository{},
		})

		_, err := svc.CreateTicket(ctx, testPrincipal("user-1", false), TicketCreateInput{
			Title:       "Access badge request",
			Description: "Need a badge for the new hire",
			Priority:    domain.TicketPriorityLow,
		})
		assert.NoError(t, err)
		assert.Nil(t, created.CategoryID)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo:   &mocks.MockTicketRepository{},
			CommentRepo:  &mocks.MockCommentRepository{},
			HistoryRepo:  &mocks.MockHistoryRepository{},
			CategoryRepo: &mocks.MockCategoryRepository{},
			RatingRepo:   &mocks.MockRatingRepository{},
		})
		_, err := svc.CreateTicket(ctx, testPrincipal("user-1", false), TicketCreateInput{Title: "   "})
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("inactive department rejected", func(t *testing.T) {
		dept := "dept-1"
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo:  &mocks.MockTicketRepository{},
			CommentRepo: &mocks.MockCommentRepository{},
			HistoryRepo: &mocks.MockHistoryRepository{},
			DepartmentRepo: &mocks.MockDepartmentRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*domain.Department, error) {
					return &domain.Department{ID: id, IsActive: false}, nil
				},
			},
			CategoryRepo: &mocks.MockCategoryRepository{},
			RatingRepo:   &mocks.MockRatingRepository{},
		})
		_, err := svc.CreateTicket(ctx, testPrincipal("user-1", false), TicketCreateInput{
			Title:        "Anything",
			DepartmentID: &dept,
		})
		assertDomainCode(t, err, "CONFLICT")
	})
}

func TestListTicketsVisibilityScoping(t *testing.T) {
	ctx := context.Background()
	dept := "dept-1"

	t.Run("regular user gets access scope", func(t *testing.T) {
		var gotFilter *string
		var gotDepts []string
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo: &mocks.MockTicketRepository{
				ListWithFilterFunc: func(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
					gotFilter = filter.AccessUserID
					gotDepts = filter.AccessDepartmentIDs
					return nil, nil
				},
			},
			CommentRepo:  &mocks.MockCommentRepository{},
			HistoryRepo:  &mocks.MockHistoryRepository{},
			CategoryRepo: &mocks.MockCategoryRepository{},
			RatingRepo:   &mocks.MockRatingRepository{},
		})
		principal := testPrincipal("user-1", false, deptMembership("user-1", dept, domain.MemberRoleMember))
		_, err := svc.ListTickets(ctx, principal, TicketListFilter{})
		assert.NoError(t, err)
		assert.NotNil(t, gotFilter)
		assert.Equal(t, "user-1", *gotFilter)
		assert.Equal(t, []string{dept}, gotDepts)
	})

	t.Run("superuser unscoped", func(t *testing.T) {
		var gotFilter *string
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo: &mocks.MockTicketRepository{
				ListWithFilterFunc: func(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
					gotFilter = filter.AccessUserID
					return nil, nil
				},
			},
			CommentRepo:  &mocks.MockCommentRepository{},
			HistoryRepo:  &mocks.MockHistoryRepository{},
			CategoryRepo: &mocks.MockCategoryRepository{},
			RatingRepo:   &mocks.MockRatingRepository{},
		})
		_, err := svc.ListTickets(ctx, testPrincipal("admin", true), TicketListFilter{})
		assert.NoError(t, err)
		assert.Nil(t, gotFilter)
	})
}

func TestCloseTicket(t *testing.T) {
	ctx := context.Background()
	dept := "dept-1"

	openTicket := func() *domain.Ticket {
		return &domain.Ticket{
			ID:           "t-1",
			Title:        "Broken VPN",
			RequesterID:  "requester",
			DepartmentID: &dept,
			Status:       domain.TicketStatusOpen,
		}
	}

	t.Run("assignee closes with comment", func(t *testing.T) {
		ticket := openTicket()
		assignee := "agent-1"
		ticket.AssigneeID = &assignee
		recorder := &recordedEvents{}
		var savedComment *domain.Comment

		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo: &mocks.MockTicketRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) { return ticket, nil },
			},
			CommentRepo: &mocks.MockCommentRepository{
				CreateFunc: func(ctx context.Context, comment *domain.Comment) error {
					savedComment = comment
					return nil
				},
			},
			HistoryRepo:  &mocks.MockHistoryRepository{},
			CategoryRepo: &mocks.MockCategoryRepository{},
			RatingRepo:   &mocks.MockRatingRepository{},
			Dispatcher:   recorder,
		})

		closed, err := svc.CloseTicket(ctx, testPrincipal(assignee, false), "t-1", "fixed by replacing the certificate")
		assert.NoError(t, err)
		assert.Equal(t, domain.TicketStatusClosed, closed.Status)
		assert.NotNil(t, closed.ClosedAt)
		assert.Equal(t, assignee, *closed.ClosedByID)
		assert.Equal(t, domain.CommentKindClosing, savedComment.Kind)
		assert.Equal(t, []events.EventType{events.EventTicketStatusChanged}, recorder.typesSeen())
	})

	t.Run("comment required", func(t *testing.T) {
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo:   &mocks.MockTicketRepository{},
			CommentRepo:  &mocks.MockCommentRepository{},
			HistoryRepo:  &mocks.MockHistoryRepository{},
			CategoryRepo: &mocks.MockCategoryRepository{},
			RatingRepo:   &mocks.MockRatingRepository{},
		})
		_, err := svc.CloseTicket(ctx, testPrincipal("agent-1", false), "t-1", "  ")
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("requester without permission refused", func(t *testing.T) {
		ticket := openTicket()
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo: &mocks.MockTicketRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) { return ticket, nil },
			},
			CommentRepo:  &mocks.MockCommentRepository{},
			HistoryRepo:  &mocks.MockHistoryRepository{},
			CategoryRepo: &mocks.MockCategoryRepository{},
			RatingRepo:   &mocks.MockRatingRepository{},
		})
		_, err := svc.CloseTicket(ctx, testPrincipal("requester", false), "t-1", "done")
		assertDomainCode(t, err, "FORBIDDEN")
	})

	t.Run("history write failure surfaces", func(t *testing.T) {
		ticket := openTicket()
		assignee := "agent-1"
		ticket.AssigneeID = &assignee
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo: &mocks.MockTicketRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) { return ticket, nil },
			},
			CommentRepo: &mocks.MockCommentRepository{},
			HistoryRepo: &mocks.MockHistoryRepository{
				CreateFunc: func(ctx context.Context, entry *domain.TicketHistory) error {
					return assert.AnError
				},
			},
			CategoryRepo: &mocks.MockCategoryRepository{},
			RatingRepo:   &mocks.MockRatingRepository{},
		})
		_, err := svc.CloseTicket(ctx, testPrincipal(assignee, false), "t-1", "done")
		assertDomainCode(t, err, "INTERNAL_ERROR")
	})
}

func TestUpdateTicketDueDate(t *testing.T) {
	ctx := context.Background()

	ticket := &domain.Ticket{
		ID:          "t-1",
		Title:       "Replace keyboard",
		RequesterID: "requester",
		Status:      domain.TicketStatusOpen,
	}
	var recorded []*domain.TicketHistory
	svc := newTicketServiceForTest(TicketDependencies{
		TicketRepo: &mocks.MockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) { return ticket, nil },
		},
		CommentRepo: &mocks.MockCommentRepository{},
		HistoryRepo: &mocks.MockHistoryRepository{
			CreateFunc: func(ctx context.Context, entry *domain.TicketHistory) error {
				recorded = append(recorded, entry)
				return nil
			},
		},
		CategoryRepo: &mocks.MockCategoryRepository{},
		RatingRepo:   &mocks.MockRatingRepository{},
	})

	due := mocks.Now().Add(48 * time.Hour)
	updated, err := svc.UpdateTicket(ctx, testPrincipal("requester", false), "t-1", TicketUpdateInput{DueDate: &due})
	assert.NoError(t, err)
	assert.Equal(t, due, *updated.DueDate)
	assert.Len(t, recorded, 1)
	assert.Equal(t, domain.HistoryUpdated, recorded[0].Action)
	assert.Equal(t, "due_date", recorded[0].FieldName)
	assert.Equal(t, "", recorded[0].OldValue)
	assert.Equal(t, due.Format(time.RFC3339), recorded[0].NewValue)

	// Setting the same due date again is not an audited change.
	recorded = nil
	_, err = svc.UpdateTicket(ctx, testPrincipal("requester", false), "t-1", TicketUpdateInput{DueDate: &due})
	assert.NoError(t, err)
	assert.Empty(t, recorded)
}

func TestCommentPreviewKeepsRunesIntact(t *testing.T) {
	t.Run("short body untouched", func(t *testing.T) {
		assert.Equal(t, "all good", previewOf("all good"))
	})

	t.Run("long multi-byte body truncates on a rune boundary", func(t *testing.T) {
		body := strings.Repeat("ü", 200)
		preview := previewOf(body)
		assert.True(t, utf8.ValidString(preview))
		assert.Equal(t, strings.Repeat("ü", 120)+"…", preview)
	})

	t.Run("wide runes under the limit stay whole", func(t *testing.T) {
		// 60 three-byte runes exceed 120 bytes but not 120 runes.
		body := strings.Repeat("語", 60)
		assert.Equal(t, body, previewOf(body))
	})
}

func TestReopenTicket(t *testing.T) {
	ctx := context.Background()

	closedTicket := func() *domain.Ticket {
		closedBy := "agent-1"
		closedAt := mocks.Now()
		return &domain.Ticket{
			ID:          "t-1",
			Title:       "VPN drops",
			RequesterID: "requester",
			Status:      domain.TicketStatusClosed,
			ClosedAt:    &closedAt,
			ClosedByID:  &closedBy,
		}
	}

	t.Run("requester reopens closed ticket", func(t *testing.T) {
		ticket := closedTicket()
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo: &mocks.MockTicketRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) { return ticket, nil },
			},
			CommentRepo:  &mocks.MockCommentRepository{},
			HistoryRepo:  &mocks.MockHistoryRepository{},
			CategoryRepo: &mocks.MockCategoryRepository{},
			RatingRepo:   &mocks.MockRatingRepository{},
		})
		reopened, err := svc.ReopenTicket(ctx, testPrincipal("requester", false), "t-1", "still failing")
		assert.NoError(t, err)
		assert.Equal(t, domain.TicketStatusReopened, reopened.Status)
		assert.Nil(t, reopened.ClosedAt)
		assert.Nil(t, reopened.ClosedByID)
	})

	t.Run("non-requester refused", func(t *testing.T) {
		ticket := closedTicket()
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo: &mocks.MockTicketRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) { return ticket, nil },
			},
			CommentRepo:  &mocks.MockCommentRepository{},
			HistoryRepo:  &mocks.MockHistoryRepository{},
			CategoryRepo: &mocks.MockCategoryRepository{},
			RatingRepo:   &mocks.MockRatingRepository{},
		})
		_, err := svc.ReopenTicket(ctx, testPrincipal("someone-else", false), "t-1", "reopen please")
		assertDomainCode(t, err, "FORBIDDEN")
	})

	t.Run("open ticket cannot be reopened", func(t *testing.T) {
		ticket := closedTicket()
		ticket.Status = domain.TicketStatusOpen
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo: &mocks.MockTicketRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) { return ticket, nil },
			},
			CommentRepo:  &mocks.MockCommentRepository{},
			HistoryRepo:  &mocks.MockHistoryRepository{},
			CategoryRepo: &mocks.MockCategoryRepository{},
			RatingRepo:   &mocks.MockRatingRepository{},
		})
		_, err := svc.ReopenTicket(ctx, testPrincipal("requester", false), "t-1", "reopen")
		assertDomainCode(t, err, "CONFLICT")
	})
}

func TestAddCommentStopsResponseClock(t *testing.T) {
	ctx := context.Background()
	dept := "dept-1"

	ticket := &domain.Ticket{
		ID:           "t-1",
		Title:        "Slow laptop",
		RequesterID:  "requester",
		DepartmentID: &dept,
		Status:       domain.TicketStatusOpen,
	}
	var updated *domain.Ticket
	svc := newTicketServiceForTest(TicketDependencies{
		TicketRepo: &mocks.MockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) { return ticket, nil },
			UpdateFunc: func(ctx context.Context, t *domain.Ticket) error {
				updated = t
				return nil
			},
		},
		CommentRepo:  &mocks.MockCommentRepository{},
		HistoryRepo:  &mocks.MockHistoryRepository{},
		CategoryRepo: &mocks.MockCategoryRepository{},
		RatingRepo:   &mocks.MockRatingRepository{},
	})

	agent := testPrincipal("agent-1", false, deptMembership("agent-1", dept, domain.MemberRoleMember))
	_, err := svc.AddComment(ctx, agent, "t-1", "looking into it", nil)
	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.NotNil(t, updated.FirstResponseAt)

	// A requester comment never counts as first response.
	ticket.FirstResponseAt = nil
	updated = nil
	_, err = svc.AddComment(ctx, testPrincipal("requester", false), "t-1", "any update?", nil)
	assert.NoError(t, err)
	assert.Nil(t, updated)
}

func TestRateTicket(t *testing.T) {
	ctx := context.Background()

	resolvedTicket := func() *domain.Ticket {
		assignee := "agent-1"
		return &domain.Ticket{
			ID:          "t-1",
			Title:       "Email down",
			RequesterID: "requester",
			AssigneeID:  &assignee,
			Status:      domain.TicketStatusResolved,
		}
	}

	t.Run("requester rates resolved ticket", func(t *testing.T) {
		recorder := &recordedEvents{}
		var saved *domain.TicketRating
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo: &mocks.MockTicketRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) { return resolvedTicket(), nil },
			},
			CommentRepo:  &mocks.MockCommentRepository{},
			HistoryRepo:  &mocks.MockHistoryRepository{},
			CategoryRepo: &mocks.MockCategoryRepository{},
			RatingRepo: &mocks.MockRatingRepository{
				CreateFunc: func(ctx context.Context, rating *domain.TicketRating) error {
					saved = rating
					return nil
				},
			},
			Dispatcher: recorder,
		})
		rating, err := svc.RateTicket(ctx, testPrincipal("requester", false), "t-1", 4, "quick fix")
		assert.NoError(t, err)
		assert.Equal(t, saved, rating)
		assert.Equal(t, 4, rating.Stars)
		assert.Equal(t, []events.EventType{events.EventTicketRated}, recorder.typesSeen())
	})

	t.Run("invalid stars rejected", func(t *testing.T) {
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo:   &mocks.MockTicketRepository{},
			CommentRepo:  &mocks.MockCommentRepository{},
			HistoryRepo:  &mocks.MockHistoryRepository{},
			CategoryRepo: &mocks.MockCategoryRepository{},
			RatingRepo:   &mocks.MockRatingRepository{},
		})
		_, err := svc.RateTicket(ctx, testPrincipal("requester", false), "t-1", 6, "")
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("only requester may rate", func(t *testing.T) {
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo: &mocks.MockTicketRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) { return resolvedTicket(), nil },
			},
			CommentRepo:  &mocks.MockCommentRepository{},
			HistoryRepo:  &mocks.MockHistoryRepository{},
			CategoryRepo: &mocks.MockCategoryRepository{},
			RatingRepo:   &mocks.MockRatingRepository{},
		})
		_, err := svc.RateTicket(ctx, testPrincipal("agent-1", false), "t-1", 5, "")
		assertDomainCode(t, err, "FORBIDDEN")
	})

	t.Run("open ticket cannot be rated", func(t *testing.T) {
		ticket := resolvedTicket()
		ticket.Status = domain.TicketStatusOpen
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo: &mocks.MockTicketRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) { return ticket, nil },
			},
			CommentRepo:  &mocks.MockCommentRepository{},
			HistoryRepo:  &mocks.MockHistoryRepository{},
			CategoryRepo: &mocks.MockCategoryRepository{},
			RatingRepo:   &mocks.MockRatingRepository{},
		})
		_, err := svc.RateTicket(ctx, testPrincipal("requester", false), "t-1", 3, "")
		assertDomainCode(t, err, "CONFLICT")
	})

	t.Run("second rating refused", func(t *testing.T) {
		svc := newTicketServiceForTest(TicketDependencies{
			TicketRepo: &mocks.MockTicketRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) { return resolvedTicket(), nil },
			},
			CommentRepo:  &mocks.MockCommentRepository{},
			HistoryRepo:  &mocks.MockHistoryRepository{},
			CategoryRepo: &mocks.MockCategoryRepository{},
			RatingRepo: &mocks.MockRatingRepository{
				GetByTicketFunc: func(ctx context.Context, ticketID string) (*domain.TicketRating, error) {
					return &domain.TicketRating{TicketID: ticketID, Stars: 5}, nil
				},
			},
		})
		_, err := svc.RateTicket(ctx, testPrincipal("requester", false), "t-1", 3, "")
		assertDomainCode(t, err, "CONFLICT")
	})
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	assert.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, code, domainErr.Code)
}
