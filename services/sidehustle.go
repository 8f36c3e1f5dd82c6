package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	DefaultHoursPerWeek = 5
	MaxHoursPerWeek     = 80

	weeksPerMonth      = 4
	maxSuggestions     = 5
	genericSuitability = 30
)

// HustleIdea is a catalog entry the matcher can suggest
type HustleIdea struct {
	Title       string
	Categories  []string
	Keywords    []string
	HourlyRate  float64
	Description string
	Steps       []string
	Platforms   []string
}

// Suggestion is a side-hustle idea scored for one user
type Suggestion struct {
	Title       string   `json:"title"`
	Categories  []string `json:"categories"`
	Suitability int      `json:"suitability"`
	EstMonthly  int      `json:"estMonthly"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
	Matched     []string `json:"matchedSkills"`
}

// GigGuide is a starter kit for one side hustle
type GigGuide struct {
	GigDescription string   `json:"gigDescription"`
	Steps          []string `json:"steps"`
	ResumeSnippet  string   `json:"resumeSnippet"`
	EstMonthly     int      `json:"estMonthly"`
}

var hustleCatalog = []HustleIdea{
	{
		Title:       "Video Editing for Creators",
		Categories:  []string{"Creative", "Freelance"},
		Keywords:    []string{"video", "editing", "premiere", "final cut", "davinci", "after effects", "youtube", "reels"},
		HourlyRate:  400,
		Description: "Edit short-form and long-form videos for YouTubers, coaches and small brands.",
		Steps:       []string{"Cut a 60-second showreel", "List a gig on Fiverr or Upwork", "Pitch 10 small creators", "Offer a first edit at a discount"},
		Platforms:   []string{"Fiverr", "Upwork", "Instagram"},
	},
	{
		Title:       "Online Tutoring",
		Categories:  []string{"Education"},
		Keywords:    []string{"teaching", "teach", "tutor", "tutoring", "math", "maths", "science", "physics", "chemistry", "english"},
		HourlyRate:  350,
		Description: "Tutor school and college students one-on-one over video calls.",
		Steps:       []string{"Pick two subjects and grade levels", "Create a profile on a tutoring platform", "Ask friends and family for first referrals", "Prepare reusable lesson notes"},
		Platforms:   []string{"Chegg", "Vedantu", "Superprof"},
	},
	{
		Title:       "Excel & Data Cleanup Services",
		Categories:  []string{"Data", "Freelance"},
		Keywords:    []string{"excel", "spreadsheet", "spreadsheets", "google sheets", "sheets", "data entry", "data", "vlookup", "pivot"},
		HourlyRate:  300,
		Description: "Clean, merge and summarise spreadsheets for small businesses and shops.",
		Steps:       []string{"Build two sample dashboards", "Offer fixed-price cleanup packages", "Reach out to local businesses", "Collect testimonials after each job"},
		Platforms:   []string{"Upwork", "Freelancer", "LinkedIn"},
	},
	{
		Title:       "Freelance Content Writing",
		Categories:  []string{"Writing", "Freelance"},
		Keywords:    []string{"writing", "writer", "content", "blog", "blogging", "copywriting", "seo", "articles"},
		HourlyRate:  300,
		Description: "Write blog posts, product descriptions and newsletters for online businesses.",
		Steps:       []string{"Publish three sample articles", "Create a simple portfolio page", "Apply to five content gigs a week", "Specialise in one niche"},
		Platforms:   []string{"Contently", "Upwork", "Medium"},
	},
	{
		Title:       "Social Media Management",
		Categories:  []string{"Marketing"},
		Keywords:    []string{"social media", "instagram", "marketing", "facebook", "linkedin", "canva", "content calendar"},
		HourlyRate:  350,
		Description: "Plan, design and schedule posts for local businesses that lack a marketing team.",
		Steps:       []string{"Audit a local business account for free", "Prepare a one-month content calendar template", "Offer a monthly retainer", "Report engagement every month"},
		Platforms:   []string{"Instagram", "LinkedIn", "Meta Business Suite"},
	},
	{
		Title:       "Graphic Design Gigs",
		Categories:  []string{"Creative", "Design"},
		Keywords:    []string{"design", "designing", "photoshop", "illustrator", "figma", "logo", "graphics", "canva"},
		HourlyRate:  450,
		Description: "Design logos, social posts and presentation decks for startups and creators.",
		Steps:       []string{"Assemble a portfolio of eight pieces", "Post work on Behance and Dribbble", "List starter packages on Fiverr", "Upsell brand kits to repeat clients"},
		Platforms:   []string{"Behance", "Dribbble", "Fiverr"},
	},
	{
		Title:       "Web Development Projects",
		Categories:  []string{"Tech", "Freelance"},
		Keywords:    []string{"web", "html", "css", "javascript", "react", "wordpress", "coding", "programming", "developer", "python"},
		HourlyRate:  600,
		Description: "Build and maintain websites and landing pages for small businesses.",
		Steps:       []string{"Ship two demo sites", "Offer fixed-price landing pages", "Add a maintenance plan", "Ask every client for a referral"},
		Platforms:   []string{"Upwork", "Toptal", "LinkedIn"},
	},
	{
		Title:       "Event & Portrait Photography",
		Categories:  []string{"Creative"},
		Keywords:    []string{"photography", "photo", "photos", "camera", "lightroom", "photographer"},
		HourlyRate:  500,
		Description: "Shoot portraits, product photos and small events on weekends.",
		Steps:       []string{"Do three free portrait sessions for a portfolio", "Publish an Instagram showcase", "Offer weekend event packages", "Sell edited photo bundles"},
		Platforms:   []string{"Instagram", "Shutterstock", "UrbanClap"},
	},
	{
		Title:       "Voice-over & Podcast Editing",
		Categories:  []string{"Audio", "Freelance"},
		Keywords:    []string{"voice", "voiceover", "audio", "podcast", "audacity", "singing"},
		HourlyRate:  400,
		Description: "Record voice-overs and clean up podcast audio for creators.",
		Steps:       []string{"Record a two-minute demo reel", "Set up a quiet recording corner", "List voice and editing gigs", "Offer per-episode pricing"},
		Platforms:   []string{"Voices.com", "Fiverr", "Upwork"},
	},
	{
		Title:       "Local Errands & Delivery",
		Categories:  []string{"Local"},
		Keywords:    []string{"driving", "bike", "delivery", "errands"},
		HourlyRate:  150,
		Description: "Run errands and deliveries in your neighbourhood during free hours.",
		Steps:       []string{"Sign up with a delivery app", "Plan shifts around your main job", "Track fuel and time costs", "Focus on peak hours"},
		Platforms:   []string{"Swiggy", "Zomato", "Dunzo"},
	},
}

// SideHustleMatcher suggests side hustles from a skills description
type SideHustleMatcher struct {
	catalog []HustleIdea
}

func NewSideHustleMatcher() *SideHustleMatcher {
	return &SideHustleMatcher{catalog: hustleCatalog}
}

// NormalizeHours applies the default and the weekly cap
func NormalizeHours(hours float64) float64 {
	if hours <= 0 {
		return DefaultHoursPerWeek
	}
	return math.Min(hours, MaxHoursPerWeek)
}

// ParseSkills splits a comma separated skills string into lower-cased items
func ParseSkills(skills string) []string {
	var out []string
	for _, s := range strings.FieldsFunc(strings.ToLower(skills), func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	}) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Suggest returns up to five ideas ranked by skill match then earnings
func (m *SideHustleMatcher) Suggest(skills string, hoursPerWeek float64) []Suggestion {
	hours := NormalizeHours(hoursPerWeek)
	text := " " + strings.Join(ParseSkills(skills), " ") + " "

	var suggestions []Suggestion
	for _, idea := range m.catalog {
		matched := matchKeywords(text, idea.Keywords)
		if len(matched) == 0 {
			continue
		}
		suggestions = append(suggestions, suggestionFor(idea, hours, min(95, 50+15*len(matched)), matched))
	}

	if len(suggestions) == 0 {
		for _, title := range []string{"Online Tutoring", "Freelance Content Writing", "Local Errands & Delivery"} {
			if idea, ok := m.find(title); ok {
				suggestions = append(suggestions, suggestionFor(idea, hours, genericSuitability, []string{}))
			}
		}
		return suggestions
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Suitability != suggestions[j].Suitability {
			return suggestions[i].Suitability > suggestions[j].Suitability
		}
		return suggestions[i].EstMonthly > suggestions[j].EstMonthly
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// Generate builds a gig description, starter steps and a resume line
func (m *SideHustleMatcher) Generate(title, skills string, hoursPerWeek float64) GigGuide {
	hours := NormalizeHours(hoursPerWeek)
	skillList := ParseSkills(skills)
	skillText := "your skills"
	if len(skillList) > 0 {
		skillText = strings.Join(skillList, ", ")
	}

	idea, ok := m.find(title)
	if !ok {
		idea = HustleIdea{
			Title:       strings.TrimSpace(title),
			Description: fmt.Sprintf("Offer %s as a service to individuals and small businesses.", strings.TrimSpace(title)),
			HourlyRate:  300,
			Steps: []string{
				"Define one clear service and a fixed starter price",
				"Create three portfolio samples",
				"List the service on two freelance platforms",
				"Ask your network for the first three clients",
			},
			Platforms: []string{"Fiverr", "Upwork", "LinkedIn"},
		}
	}

	monthly := estMonthly(idea.HourlyRate, hours)

	var gig strings.Builder
	gig.WriteString(fmt.Sprintf("%s\n\n", idea.Title))
	gig.WriteString(fmt.Sprintf("%s\n\n", idea.Description))
	gig.WriteString(fmt.Sprintf("What I bring: %s.\n", skillText))
	gig.WriteString(fmt.Sprintf("Availability: %s hours per week.\n", formatHours(hours)))
	gig.WriteString(fmt.Sprintf("Starting rate: ₹%s per hour.\n", rupees(idea.HourlyRate)))
	gig.WriteString(fmt.Sprintf("Where to find me: %s.\n\n", strings.Join(idea.Platforms, ", ")))
	gig.WriteString(fmt.Sprintf("Estimated earnings: about ₹%s per month.", rupees(float64(monthly))))

	steps := make([]string, 0, len(idea.Steps)+1)
	steps = append(steps, idea.Steps...)
	steps = append(steps, fmt.Sprintf("Block %s hours in your calendar every week", formatHours(hours)))

	resume := fmt.Sprintf("Freelance %s (part-time, %s hrs/week): delivered client work using %s; managed scheduling, pricing and client communication independently.",
		idea.Title, formatHours(hours), skillText)

	return GigGuide{
		GigDescription: gig.String(),
		Steps:          steps,
		ResumeSnippet:  resume,
		EstMonthly:     monthly,
	}
}

func (m *SideHustleMatcher) find(title string) (HustleIdea, bool) {
	title = strings.ToLower(strings.TrimSpace(title))
	for _, idea := range m.catalog {
		if strings.ToLower(idea.Title) == title {
			return idea, true
		}
	}
	return HustleIdea{}, false
}

func suggestionFor(idea HustleIdea, hours float64, suitability int, matched []string) Suggestion {
	return Suggestion{
		Title:       idea.Title,
		Categories:  idea.Categories,
		Suitability: suitability,
		EstMonthly:  estMonthly(idea.HourlyRate, hours),
		Description: idea.Description,
		Steps:       idea.Steps,
		Matched:     matched,
	}
}

// matchKeywords returns the keywords found as whole words in padded text
func matchKeywords(text string, keywords []string) []string {
	matched := []string{}
	for _, kw := range keywords {
		if strings.Contains(text, " "+kw+" ") {
			matched = append(matched, kw)
		}
	}
	return matched
}

func estMonthly(rate, hours float64) int {
	return int(math.Round(rate * hours * weeksPerMonth))
}

func formatHours(h float64) string {
	if h == math.Trunc(h) {
		return fmt.Sprintf("%d", int(h))
	}
	return fmt.Sprintf("%.1f", h)
}
