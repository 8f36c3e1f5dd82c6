package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/finmentor/backend/logger"
)

type stubFallback struct {
	answer string
	err    error
	calls  int
}

func (s *stubFallback) Advise(ctx context.Context, message string) (string, error) {
	s.calls++
	return s.answer, s.err
}

func TestAdvisorReply(t *testing.T) {
	advisor := NewAdvisor(nil, logger.Discard())

	tests := []struct {
		name     string
		req      AdviceRequest
		contains []string
	}{
		{
			name:     "empty message",
			req:      AdviceRequest{Message: "   "},
			contains: []string{"Please ask me a question"},
		},
		{
			name:     "goal too expensive for the timeline",
			req:      AdviceRequest{Message: "I earn ₹50,000, buy a car in 12 months"},
			contains: []string{"car (estimated ₹500,000) in 12 months", "₹41,667 per month", "This is challenging!", "Extend timeline to 25 months"},
		},
		{
			name:     "goal covered by normal savings",
			req:      AdviceRequest{Message: "laptop in 10 months", Income: 100000},
			contains: []string{"very achievable!", "₹10,000", "from your normal 20% savings"},
		},
		{
			name:     "goal needs wants cut",
			req:      AdviceRequest{Message: "buy a bike in 5 months", Income: 100000},
			contains: []string{"₹30,000", "Cut back \"Wants\" by ₹10,000"},
		},
		{
			name:     "explicit amount wins over default",
			req:      AdviceRequest{Message: "save 5 lakh in 6 months", Income: 50000},
			contains: []string{"₹500,000", "₹83,334 per month", "challenging"},
		},
		{
			name:     "rule without income",
			req:      AdviceRequest{Message: "What's the 50/30/20 rule?"},
			contains: []string{"50/30/20 Budget Rule", "For any income"},
		},
		{
			name:     "rule with income",
			req:      AdviceRequest{Message: "explain 50 30 20", Income: 40000},
			contains: []string{"With ₹40,000 monthly income", "₹20,000", "₹12,000", "₹8,000"},
		},
		{
			name:     "saving tips",
			req:      AdviceRequest{Message: "How can I save more money?"},
			contains: []string{"General Saving Tips"},
		},
		{
			name:     "investing",
			req:      AdviceRequest{Message: "Should I invest in stocks?"},
			contains: []string{"Investment Basics"},
		},
		{
			name:     "income only",
			req:      AdviceRequest{Message: "I earn 30000"},
			contains: []string{"With ₹30,000 monthly income", "₹6,000"},
		},
		{
			name:     "help when nothing matches",
			req:      AdviceRequest{Message: "hello there"},
			contains: []string{"I can help you with"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := advisor.Reply(context.Background(), tt.req)
			for _, want := range tt.contains {
				if !strings.Contains(reply, want) {
					t.Errorf("reply missing %q:\n%s", want, reply)
				}
			}
		})
	}
}

func TestAdvisorFallback(t *testing.T) {
	ctx := context.Background()

	ok := &stubFallback{answer: "Try an index fund SIP."}
	if got := NewAdvisor(ok, logger.Discard()).Reply(ctx, AdviceRequest{Message: "what is a SIP?"}); got != "Try an index fund SIP." {
		t.Errorf("Reply() = %q, want fallback answer", got)
	}

	failing := &stubFallback{err: errors.New("quota exceeded")}
	got := NewAdvisor(failing, logger.Discard()).Reply(ctx, AdviceRequest{Message: "what is a SIP?"})
	if !strings.Contains(got, "I can help you with") {
		t.Errorf("Reply() = %q, want canned help", got)
	}
	if failing.calls != 1 {
		t.Errorf("fallback calls = %d, want 1", failing.calls)
	}

	templated := &stubFallback{answer: "unused"}
	NewAdvisor(templated, logger.Discard()).Reply(ctx, AdviceRequest{Message: "how do I budget?"})
	if templated.calls != 0 {
		t.Error("fallback should not be called when a template matches")
	}
}

func TestPlanGoal(t *testing.T) {
	plan := PlanGoal(ParseIntent("holiday in 10 months"), 30000)
	if plan.EstimatedCost != 200000 {
		t.Errorf("EstimatedCost = %v, want 200000", plan.EstimatedCost)
	}
	if plan.MonthlyNeeded != 20000 {
		t.Errorf("MonthlyNeeded = %v, want 20000", plan.MonthlyNeeded)
	}
	if plan.Feasible {
		t.Error("20000 of 30000 should not be feasible")
	}
	if plan.StretchMonths != 17 {
		t.Errorf("StretchMonths = %d, want 17", plan.StretchMonths)
	}

	// no amount and no known goal type: sized at 20% of income per month
	plan = PlanGoal(ParseIntent("save something in 6 months"), 40000)
	if plan.EstimatedCost != 48000 || plan.MonthlyNeeded != 8000 || !plan.Feasible {
		t.Errorf("unexpected plan %+v", plan)
	}
}
