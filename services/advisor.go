package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

const (
	// share of income above which a goal is treated as unrealistic
	feasibleShare = 0.5
	// share of income assumed available when proposing a longer timeline
	stretchShare = 0.4
	// share of income a goal is sized at when neither amount nor type is known
	defaultGoalShare = 0.2
)

// FallbackAdvisor answers messages that no canned template covers.
type FallbackAdvisor interface {
	Advise(ctx context.Context, message string) (string, error)
}

// AdviceRequest is one chat turn sent to the coach
type AdviceRequest struct {
	Message string
	Income  float64
}

// Advisor picks a canned budgeting reply for a chat message
type Advisor struct {
	fallback FallbackAdvisor
	log      *logrus.Logger
}

// NewAdvisor creates an advisor. fallback may be nil.
func NewAdvisor(fallback FallbackAdvisor, log *logrus.Logger) *Advisor {
	return &Advisor{fallback: fallback, log: log}
}

// Reply returns the coach's answer for a message
func (a *Advisor) Reply(ctx context.Context, req AdviceRequest) string {
	if strings.TrimSpace(req.Message) == "" {
		return "Please ask me a question about saving, budgeting, or investing!"
	}

	intent := ParseIntent(req.Message)
	income := req.Income
	if income <= 0 {
		income = intent.StatedIncome
	}

	switch {
	case income > 0 && intent.Months > 0:
		return goalReply(intent, income)
	case intent.HasKeyword("50/30/20", "50 30 20"):
		return ruleReply(income)
	case intent.HasKeyword("save", "saving", "budget"):
		return savingTipsReply(income)
	case intent.HasKeyword("invest", "investment", "stock"):
		return investmentReply()
	case income > 0:
		return incomeReply(income)
	}

	if a.fallback != nil {
		answer, err := a.fallback.Advise(ctx, req.Message)
		if err == nil && strings.TrimSpace(answer) != "" {
			return answer
		}
		if err != nil {
			a.log.WithError(err).Warn("Fallback advisor failed, using canned help")
		}
	}
	return helpReply()
}

// GoalPlan is the arithmetic behind a goal-with-timeline reply
type GoalPlan struct {
	GoalType      string
	EstimatedCost float64
	Months        int
	MonthlyNeeded float64
	PercentOfPay  float64
	Feasible      bool
	StretchMonths int
	SavingsBudget float64
	WantsToCut    float64
}

// PlanGoal sizes the monthly saving needed for a goal within the timeframe
func PlanGoal(intent Intent, income float64) GoalPlan {
	cost := intent.GoalAmount
	if cost <= 0 {
		if def, ok := DefaultGoalCost(intent.GoalType); ok {
			cost = def
		} else {
			cost = math.Round(income * float64(intent.Months) * defaultGoalShare)
		}
	}

	monthly := math.Ceil(cost / float64(intent.Months))
	savings := math.Round(income * 0.2)
	plan := GoalPlan{
		GoalType:      intent.GoalType,
		EstimatedCost: cost,
		Months:        intent.Months,
		MonthlyNeeded: monthly,
		PercentOfPay:  monthly / income * 100,
		Feasible:      monthly <= income*feasibleShare,
		StretchMonths: int(math.Ceil(cost / (income * stretchShare))),
		SavingsBudget: savings,
	}
	if monthly > savings {
		plan.WantsToCut = monthly - savings
	}
	return plan
}

func goalReply(intent Intent, income float64) string {
	plan := PlanGoal(intent, income)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🚗 To buy a %s (estimated ₹%s) in %d months:\n\n", plan.GoalType, rupees(plan.EstimatedCost), plan.Months))

	if !plan.Feasible {
		sb.WriteString(fmt.Sprintf("💰 You need to save: ₹%s per month\n", rupees(plan.MonthlyNeeded)))
		sb.WriteString(fmt.Sprintf("⚠️ That's %.1f%% of your ₹%s monthly income.\n\n", plan.PercentOfPay, rupees(income)))
		sb.WriteString("This is challenging! Consider:\n")
		sb.WriteString(fmt.Sprintf("• Extend timeline to %d months\n", plan.StretchMonths))
		sb.WriteString("• Reduce the goal amount\n")
		sb.WriteString("• Increase income through side projects\n")
		sb.WriteString("• Get a loan/EMI for the balance")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("✅ Monthly savings needed: ₹%s\n", rupees(plan.MonthlyNeeded)))
	sb.WriteString(fmt.Sprintf("📊 This is %.1f%% of your income — very achievable!\n\n", plan.PercentOfPay))
	sb.WriteString("💡 Savings breakdown (50/30/20 rule):\n")
	sb.WriteString(fmt.Sprintf("• Needs (50%%): ₹%s\n", rupees(income*0.5)))
	sb.WriteString(fmt.Sprintf("• Wants (30%%): ₹%s\n", rupees(income*0.3)))
	sb.WriteString(fmt.Sprintf("• Savings (20%%): ₹%s\n\n", rupees(plan.SavingsBudget)))
	sb.WriteString(fmt.Sprintf("🎯 Your goal requires ₹%s, so:\n", rupees(plan.MonthlyNeeded)))
	if plan.WantsToCut == 0 {
		sb.WriteString("• You can achieve this from your normal 20% savings.\n")
	} else {
		sb.WriteString(fmt.Sprintf("• Cut back \"Wants\" by ₹%s to meet your goal.\n", rupees(plan.WantsToCut)))
	}
	sb.WriteString("• Open a dedicated savings account\n")
	sb.WriteString("• Set up auto-transfer on salary day")
	return sb.String()
}

func ruleReply(income float64) string {
	var sb strings.Builder
	sb.WriteString("💼 50/30/20 Budget Rule\n\n")
	if income > 0 {
		sb.WriteString(fmt.Sprintf("With ₹%s monthly income:\n", rupees(income)))
		sb.WriteString(fmt.Sprintf("🏠 Needs (50%%): ₹%s (rent, food, utilities, transport)\n", rupees(income*0.5)))
		sb.WriteString(fmt.Sprintf("🎮 Wants (30%%): ₹%s (entertainment, dining, hobbies)\n", rupees(income*0.3)))
		sb.WriteString(fmt.Sprintf("💰 Savings (20%%): ₹%s (emergency fund, investments)\n\n", rupees(income*0.2)))
	} else {
		sb.WriteString("For any income:\n")
		sb.WriteString("🏠 Needs: 50% (essential expenses)\n")
		sb.WriteString("🎮 Wants: 30% (lifestyle & entertainment)\n")
		sb.WriteString("💰 Savings: 20% (build wealth)\n\n")
	}
	sb.WriteString("This rule helps balance your lifestyle with financial security.\n")
	sb.WriteString("Adjust percentages based on your goals and location!")
	return sb.String()
}

func savingTipsReply(income float64) string {
	var sb strings.Builder
	if income > 0 {
		sb.WriteString(fmt.Sprintf("💡 Smart Saving Tips for ₹%s monthly income:\n\n", rupees(income)))
		sb.WriteString(fmt.Sprintf("📌 Save at least ₹%s per month (20%% rule)\n", rupees(income*0.2)))
		sb.WriteString("📌 Track every expense for a month\n")
		sb.WriteString("📌 Cut 5-10 unnecessary subscriptions\n")
		sb.WriteString("📌 Use \"Pay Yourself First\" — save before spending\n")
		sb.WriteString("📌 Build 3-6 months emergency fund\n")
		sb.WriteString("📌 Start small, increase gradually\n\n")
		sb.WriteString("🎯 Specific goals help! Tell me what you want to buy.")
		return sb.String()
	}

	sb.WriteString("💡 General Saving Tips:\n\n")
	sb.WriteString("📌 Follow the 50/30/20 rule\n")
	sb.WriteString("📌 Track your spending daily\n")
	sb.WriteString("📌 Automate savings (auto-transfer to savings account)\n")
	sb.WriteString("📌 Build emergency fund (3-6 months expenses)\n")
	sb.WriteString("📌 Cut unnecessary subscriptions\n")
	sb.WriteString("📌 Set specific financial goals\n\n")
	sb.WriteString("💰 Share your income & goal, and I'll give personalized advice!")
	return sb.String()
}

func investmentReply() string {
	return "📈 Investment Basics:\n\n" +
		"Before investing, ensure:\n" +
		"✅ Emergency fund (3-6 months expenses)\n" +
		"✅ Zero high-interest debt\n" +
		"✅ Clear financial goal & timeline\n\n" +
		"📊 Popular options:\n" +
		"• Savings Account: Safe, low returns (3-4%)\n" +
		"• Fixed Deposits: Safe, better returns (5-7%)\n" +
		"• Mutual Funds: Moderate risk, 8-12% returns\n" +
		"• Stocks: High risk, high rewards\n\n" +
		"💡 Tip: Start with low-risk options, gradually increase risk as you learn!"
}

func incomeReply(income float64) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💼 With ₹%s monthly income:\n\n", rupees(income)))
	sb.WriteString(fmt.Sprintf("🎯 Recommended monthly savings: ₹%s (20%% rule)\n", rupees(income*0.2)))
	sb.WriteString(fmt.Sprintf("🏠 Essential expenses (50%%): ₹%s\n", rupees(income*0.5)))
	sb.WriteString(fmt.Sprintf("🎮 Lifestyle (30%%): ₹%s\n", rupees(income*0.3)))
	sb.WriteString(fmt.Sprintf("💰 Savings (20%%): ₹%s\n\n", rupees(income*0.2)))
	sb.WriteString("💡 Tell me your goal (car, house, holiday, etc.) and timeframe, and I'll calculate exact monthly savings needed!")
	return sb.String()
}

func helpReply() string {
	return "💭 I can help you with:\n\n" +
		"✅ \"I earn ₹50,000. I want to buy a car in 12 months. How much should I save?\"\n" +
		"✅ \"What's the 50/30/20 rule?\"\n" +
		"✅ \"How can I save more money?\"\n" +
		"✅ \"Should I invest? What's the best way?\"\n" +
		"✅ \"I earn ₹30,000. Tell me my budget.\"\n\n" +
		"💰 Share your income and goal for personalized advice!"
}

// rupees formats a whole-rupee amount with thousands separators
func rupees(amount float64) string {
	return humanize.Comma(int64(math.Round(amount)))
}
