package insight

import "seomaster/internal/gemini"

// Response schemas declared per operation. Each schema is sent with the
// request so the model targets the shape, and enforced locally after
// parsing so a drifting response fails instead of decaying into zero
// values.

var keywordSchema = gemini.Object(map[string]*gemini.Schema{
	"keywords": gemini.Array(gemini.Object(map[string]*gemini.Schema{
		"keyword":      gemini.String(),
		"searchVolume": gemini.String(),
		"competition":  gemini.Integer(),
		"strength":     gemini.Integer(),
		"trend":        gemini.String(),
		"googleScore":  gemini.Integer(),
		"youtubeScore": gemini.Integer(),
		"audienceSize": gemini.String(),
	}, "keyword", "searchVolume", "competition", "strength", "trend")),
}, "keywords")

var audienceSchema = gemini.Object(map[string]*gemini.Schema{
	"demographics": gemini.Object(map[string]*gemini.Schema{
		"ageRange":  gemini.String(),
		"interests": gemini.Array(gemini.String()),
	}, "ageRange", "interests"),
	"currentMonthTopics": gemini.Array(topicSchema),
	"topSearchQueries":   gemini.Array(topicSchema),
	"engagementTimes":    gemini.String(),
	"contentFormats": gemini.Array(gemini.Object(map[string]*gemini.Schema{
		"format":           gemini.String(),
		"performanceScore": gemini.Integer(),
		"description":      gemini.String(),
	}, "format", "performanceScore", "description")),
	"hashtagAnalysis": gemini.Array(gemini.Object(map[string]*gemini.Schema{
		"hashtag":         gemini.String(),
		"reach":           gemini.String(),
		"popularity":      gemini.Integer(),
		"growthPotential": gemini.String(),
	}, "hashtag", "reach", "popularity", "growthPotential")),
}, "demographics", "currentMonthTopics", "topSearchQueries", "engagementTimes", "contentFormats")

var topicSchema = gemini.Object(map[string]*gemini.Schema{
	"topic":       gemini.String(),
	"volume":      gemini.String(),
	"competition": gemini.Integer(),
}, "topic", "volume", "competition")

var tagsSchema = gemini.Object(map[string]*gemini.Schema{
	"tags": gemini.Array(gemini.String()),
}, "tags")

var thumbnailEvaluationSchema = gemini.Object(map[string]*gemini.Schema{
	"score":        gemini.Integer(),
	"readability":  gemini.Integer(),
	"visualImpact": gemini.Integer(),
	"critique":     gemini.String(),
}, "score", "readability", "visualImpact", "critique")

var competitorSchema = gemini.Object(map[string]*gemini.Schema{
	"handle":         gemini.String(),
	"estimatedReach": gemini.String(),
	"postingCadence": gemini.String(),
	"topTopics":      gemini.Array(gemini.String()),
	"swot": gemini.Object(map[string]*gemini.Schema{
		"strengths":     gemini.Array(gemini.String()),
		"weaknesses":    gemini.Array(gemini.String()),
		"opportunities": gemini.Array(gemini.String()),
		"threats":       gemini.Array(gemini.String()),
	}, "strengths", "weaknesses", "opportunities", "threats"),
}, "handle", "estimatedReach", "postingCadence", "topTopics", "swot")

var gapSchema = gemini.Object(map[string]*gemini.Schema{
	"opportunities": gemini.Array(gemini.String()),
	"priorities":    gemini.Array(gemini.String()),
	"advice":        gemini.String(),
}, "opportunities", "priorities", "advice")

var radarTrendSchema = gemini.Object(map[string]*gemini.Schema{
	"trends": gemini.Array(gemini.Object(map[string]*gemini.Schema{
		"title":    gemini.String(),
		"velocity": gemini.String(),
		"volume":   gemini.String(),
		"why":      gemini.String(),
	}, "title", "velocity", "volume", "why")),
}, "trends")

var contentGapSchema = gemini.Object(map[string]*gemini.Schema{
	"gaps": gemini.Array(gemini.Object(map[string]*gemini.Schema{
		"topic":          gemini.String(),
		"missingAngles":  gemini.Array(gemini.String()),
		"suggestedTitle": gemini.String(),
	}, "topic", "missingAngles", "suggestedTitle")),
}, "gaps")

var platformContentSchema = gemini.Object(map[string]*gemini.Schema{
	"title":       gemini.String(),
	"description": gemini.String(),
}, "title", "description")

var weeklyReportSchema = gemini.Object(map[string]*gemini.Schema{
	"trends": gemini.Array(gemini.Object(map[string]*gemini.Schema{
		"title":    gemini.String(),
		"velocity": gemini.String(),
		"volume":   gemini.String(),
		"why":      gemini.String(),
	}, "title", "velocity", "volume", "why")),
	"contentGaps": gemini.Array(gemini.Object(map[string]*gemini.Schema{
		"topic":          gemini.String(),
		"missingAngles":  gemini.Array(gemini.String()),
		"suggestedTitle": gemini.String(),
	}, "topic", "missingAngles", "suggestedTitle")),
	"recurringQuestions": gemini.Array(gemini.String()),
	"strategicAdvice":    gemini.String(),
}, "trends", "contentGaps", "recurringQuestions", "strategicAdvice")

var tokenFormatSchema = gemini.Object(map[string]*gemini.Schema{
	"valid":  gemini.Boolean(),
	"reason": gemini.String(),
}, "valid", "reason")
