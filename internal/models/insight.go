package models

// Provenance flags whether a result was derived from live platform data or
// from a model estimate after the live fetch failed or was unavailable.
type Provenance string

const (
	ProvenanceMeasured  Provenance = "measured"
	ProvenanceEstimated Provenance = "estimated"
)

// KeywordMetric is one row of a keyword analysis table.
type KeywordMetric struct {
	Keyword      string `json:"keyword"`
	SearchVolume string `json:"searchVolume"` // High, Medium, Low
	Competition  int    `json:"competition"`  // 0-100
	Strength     int    `json:"strength"`     // 0-100
	Trend        string `json:"trend"`        // up, down, stable
	GoogleScore  int    `json:"googleScore,omitempty"`
	YouTubeScore int    `json:"youtubeScore,omitempty"`
	AudienceSize string `json:"audienceSize,omitempty"`
}

// KeywordReport wraps the metric rows with their data provenance.
type KeywordReport struct {
	Keywords   []KeywordMetric `json:"keywords"`
	Provenance Provenance      `json:"provenance"`
}

// InsightTopic is a trending topic or search query with demand metrics.
type InsightTopic struct {
	Topic       string `json:"topic"`
	Volume      string `json:"volume"`
	Competition int    `json:"competition"`
}

// ContentFormat describes how a content format performs for the audience.
type ContentFormat struct {
	Format           string `json:"format"`
	PerformanceScore int    `json:"performanceScore"`
	Description      string `json:"description"`
}

// HashtagMetric describes reach and growth for a single hashtag.
type HashtagMetric struct {
	Hashtag         string `json:"hashtag"`
	Reach           string `json:"reach"`
	Popularity      int    `json:"popularity"`
	GrowthPotential string `json:"growthPotential"`
}

// Demographics summarizes the audience composition.
type Demographics struct {
	AgeRange  string   `json:"ageRange"`
	Interests []string `json:"interests"`
}

// AudienceReport is the audience-insight result.
type AudienceReport struct {
	Demographics       Demographics    `json:"demographics"`
	CurrentMonthTopics []InsightTopic  `json:"currentMonthTopics"`
	TopSearchQueries   []InsightTopic  `json:"topSearchQueries"`
	EngagementTimes    string          `json:"engagementTimes"`
	ContentFormats     []ContentFormat `json:"contentFormats"`
	HashtagAnalysis    []HashtagMetric `json:"hashtagAnalysis,omitempty"`
	Provenance         Provenance      `json:"provenance"`
}

// ThumbnailEvaluation is a structured critique of a generated thumbnail.
type ThumbnailEvaluation struct {
	Score        int    `json:"score"`
	Readability  int    `json:"readability"`
	VisualImpact int    `json:"visualImpact"`
	Critique     string `json:"critique"`
}

// SWOT holds the four quadrants of a competitor analysis.
type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// CompetitorReport is a per-platform intelligence report on one competitor.
type CompetitorReport struct {
	Handle          string     `json:"handle"`
	Platform        Platform   `json:"platform"`
	EstimatedReach  string     `json:"estimatedReach"`
	PostingCadence  string     `json:"postingCadence"`
	TopTopics       []string   `json:"topTopics"`
	SWOT            SWOT       `json:"swot"`
	Provenance      Provenance `json:"provenance"`
}

// GapReport ranks the openings left by a competitor in the caller's niche.
type GapReport struct {
	Opportunities []string `json:"opportunities"`
	Priorities    []string `json:"priorities"`
	Advice        string   `json:"advice"`
}

// RadarTrend is one rising topic detected by the trend radar.
type RadarTrend struct {
	Title    string `json:"title"`
	Velocity string `json:"velocity"` // rising, exploding, steady
	Volume   string `json:"volume"`
	Why      string `json:"why"`
}

// ContentGap describes an underserved angle on a trending topic.
type ContentGap struct {
	Topic          string   `json:"topic"`
	MissingAngles  []string `json:"missingAngles"`
	SuggestedTitle string   `json:"suggestedTitle"`
}

// PlatformContent is a ready-to-publish title/description pack.
type PlatformContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// WeeklyReport is the multi-section strategy report that feeds the PDF
// exporter.
type WeeklyReport struct {
	Niche              string       `json:"niche"`
	Trends             []RadarTrend `json:"trends"`
	ContentGaps        []ContentGap `json:"contentGaps"`
	RecurringQuestions []string     `json:"recurringQuestions"`
	StrategicAdvice    string       `json:"strategicAdvice"`
}
