package skills

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

type AnalyzeSentimentInput struct {
	Message string `json:"message"`
}

type SentimentIntensity struct {
	ExclamationMarks int     `json:"exclamation_marks"`
	CapsRatio        float64 `json:"caps_ratio"`
}

type SentimentAnalysis struct {
	AngryIndicators    int                `json:"angry_indicators"`
	NegativeIndicators int                `json:"negative_indicators"`
	PositiveIndicators int                `json:"positive_indicators"`
	IntensitySignals   SentimentIntensity `json:"intensity_signals"`
}

type AnalyzeSentimentOutput struct {
	Sentiment      string            `json:"sentiment"`
	Score          float64           `json:"score"`
	Recommendation string            `json:"recommendation"`
	Analysis       SentimentAnalysis `json:"analysis"`
	Summary        string            `json:"summary"`
}

var (
	angryWords = wordSet("furious angry terrible worst horrible disgusting " +
		"unacceptable ridiculous outrageous scam fraud sue lawyer complaint useless incompetent waste")
	negativeWords = wordSet("disappointed frustrated unhappy upset annoyed " +
		"waiting delayed broken wrong missing problem issue bad poor slow never still")
	positiveWords = wordSet("thank thanks great excellent amazing perfect " +
		"wonderful love awesome happy pleased good helpful appreciate satisfied")
)

// analyzeSentiment is a deterministic keyword heuristic; it never consults
// the model and is safe to call on every message.
func analyzeSentiment(message string) *AnalyzeSentimentOutput {
	words := wordSet(strings.ToLower(message))
	angry, negative, positive := 0, 0, 0
	for w := range words {
		if angryWords[w] {
			angry++
		}
		if negativeWords[w] {
			negative++
		}
		if positiveWords[w] {
			positive++
		}
	}

	exclamations := strings.Count(message, "!")
	upper := 0
	for _, r := range message {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	capsRatio := float64(upper) / math.Max(float64(len([]rune(message))), 1)

	var sentiment, recommendation string
	var score float64
	switch {
	case angry >= 2 || (angry >= 1 && exclamations >= 2):
		sentiment, score = "angry", -0.9
		recommendation = "Apologize sincerely, acknowledge frustration, offer immediate resolution, and consider escalation."
	case angry >= 1 || (negative >= 2 && (exclamations >= 1 || capsRatio > 0.3)):
		sentiment, score = "very_negative", -0.7
		recommendation = "Express empathy, acknowledge the issue, prioritize resolution."
	case negative >= 2:
		sentiment, score = "negative", -0.4
		recommendation = "Acknowledge concern, provide reassurance, work toward a solution."
	case negative == 1:
		sentiment, score = "slightly_negative", -0.2
		recommendation = "Address the concern while maintaining a positive, helpful tone."
	case positive >= 2:
		sentiment, score = "very_positive", 0.8
		recommendation = "Maintain the positive interaction, thank the customer."
	case positive >= 1:
		sentiment, score = "positive", 0.5
		recommendation = "Continue with a friendly, warm tone."
	default:
		sentiment, score = "neutral", 0.0
		recommendation = "Maintain a professional and helpful tone."
	}

	return &AnalyzeSentimentOutput{
		Sentiment:      sentiment,
		Score:          score,
		Recommendation: recommendation,
		Analysis: SentimentAnalysis{
			AngryIndicators:    angry,
			NegativeIndicators: negative,
			PositiveIndicators: positive,
			IntensitySignals: SentimentIntensity{
				ExclamationMarks: exclamations,
				CapsRatio:        math.Round(capsRatio*100) / 100,
			},
		},
		Summary: fmt.Sprintf("Customer sentiment: %s (score: %g). %s", sentiment, score, recommendation),
	}
}

func newAnalyzeSentimentSkill() *Skill {
	t := utils.NewTool(
		&schema.ToolInfo{
			Name: "analyze_sentiment",
			Desc: "Analyze the sentiment and emotional tone of a customer message. Use this tool when you need to gauge the customer's emotional state to adjust your response tone appropriately, or when the customer appears to be frustrated, angry, or upset. Provide the customer's exact message for analysis.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"message": {
					Type:     "string",
					Desc:     "The customer's exact message to analyze.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *AnalyzeSentimentInput) (*AnalyzeSentimentOutput, error) {
			return analyzeSentiment(in.Message), nil
		},
	)

	return &Skill{
		Name:        "analyze_sentiment",
		DisplayName: "Sentiment Analysis",
		Description: "Analyze customer emotional tone to adjust response",
		Icon:        "🎭",
		Tool:        t,
	}
}
