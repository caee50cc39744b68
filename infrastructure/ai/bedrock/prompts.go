package bedrock

import (
	"fmt"
	"strings"

	"contentforge-backend/domain/models"
)

const topicSystemPrompt = `You are a content strategy assistant for online video creators.
Respond with a raw JSON array only, no prose and no code fences.`

func topicPrompt(req models.TopicRequest, count int, exclude []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d video topic ideas for a creator in the %q niche targeting %q.\n", count, req.Niche, req.TargetAudience)
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&b, "Work these keywords in where they fit: %s.\n", strings.Join(req.Keywords, ", "))
	}
	if len(exclude) > 0 {
		fmt.Fprintf(&b, "Do not repeat any of these already-suggested titles: %s.\n", strings.Join(exclude, "; "))
	}
	b.WriteString(`Return a JSON array where each element has: title, description,
predicted_ctr (0-100 float), estimated_engagement {estimated_views, estimated_likes,
estimated_comments, confidence_level}, competitiveness (low|medium|high),
trending_score (0-100 integer), keywords (array of strings).`)
	return b.String()
}

const scriptSystemPrompt = `You are a video scriptwriter.
Respond with a raw JSON object only, no prose and no code fences.`

func scriptPrompt(req models.ScriptRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a video script about %q.\n", req.Topic)
	if req.Duration > 0 {
		fmt.Fprintf(&b, "Target length: about %d minutes.\n", req.Duration)
	}
	if req.Tone != "" {
		fmt.Fprintf(&b, "Tone: %s.\n", req.Tone)
	}
	if req.Platform != "" {
		fmt.Fprintf(&b, "Platform: %s.\n", req.Platform)
	}
	b.WriteString(`Return a JSON object with keys hook, introduction, main_content
(array), call_to_action. Each section has: content, word_count,
estimated_duration (seconds). The hook must grab attention in the first
three seconds.`)
	return b.String()
}

func sectionPrompt(script *models.Script, req models.SectionRegenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rewrite the %s section of this script about %q.\n", req.Section, script.Topic)
	if script.Tone != "" {
		fmt.Fprintf(&b, "Keep the %s tone.\n", script.Tone)
	}
	if req.Context != "" {
		fmt.Fprintf(&b, "Direction from the creator: %s\n", req.Context)
	}
	fmt.Fprintf(&b, "Current version:\n%s\n", currentSectionText(script, req.Section))
	b.WriteString(`Return a JSON object with keys: content, word_count,
estimated_duration (seconds).`)
	return b.String()
}

func currentSectionText(script *models.Script, section models.ScriptSection) string {
	switch section {
	case models.SectionHook:
		return script.Hook.Content
	case models.SectionIntroduction:
		return script.Introduction.Content
	case models.SectionCTA:
		return script.CallToAction.Content
	default:
		parts := make([]string, 0, len(script.MainContent))
		for _, s := range script.MainContent {
			parts = append(parts, s.Content)
		}
		return strings.Join(parts, "\n\n")
	}
}

const retentionSystemPrompt = `You are a video retention analyst.
Respond with a raw JSON object only, no prose and no code fences.`

func retentionPrompt(script *models.Script) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this video script about %q for viewer retention risk.\n\n", script.Topic)
	fmt.Fprintf(&b, "Hook: %s\n\n", script.Hook.Content)
	fmt.Fprintf(&b, "Introduction: %s\n\n", script.Introduction.Content)
	for i, s := range script.MainContent {
		fmt.Fprintf(&b, "Main part %d: %s\n\n", i+1, s.Content)
	}
	fmt.Fprintf(&b, "Call to action: %s\n\n", script.CallToAction.Content)
	b.WriteString(`Return a JSON object with keys: overall_score, hook_strength,
pacing_score, clarity_score (all 0-100 integers), risk_sections (array of
{section, risk_level (low|medium|high), issues, suggestions}),
recommendations (array of strings).`)
	return b.String()
}

const clipSystemPrompt = `You find short-form clip candidates in long-form video transcripts.
Respond with a raw JSON array only, no prose and no code fences.`

func clipPrompt(transcript string) string {
	var b strings.Builder
	b.WriteString("Find up to 5 moments in this transcript that would work as standalone short clips of 15 to 60 seconds.\n\n")
	fmt.Fprintf(&b, "Transcript:\n%s\n\n", transcript)
	b.WriteString(`Return a JSON array where each element has: clip_id,
start_time and end_time (seconds, float), confidence (0-100 integer),
reason, transcript (the clip's text), impact_type
(hook|insight|emotional|actionable|surprising).`)
	return b.String()
}
