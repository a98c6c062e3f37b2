package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
	"github.com/zraval/portfolio-assistant/internal/render"
)

// jobQueryRe detects pasted job postings and "can she do X" queries.
var jobQueryRe = regexp.MustCompile(`(?i)(job|hiring|role|position|opening|vacancy|we\s+need|can\s+she\s+do|can\s+you\s+do)`)

// Capability buckets: what the posting asks for, and which project
// text satisfies it.
var (
	wantsAudioRe   = regexp.MustCompile(`(?i)(audio|speech|asr|stt|tts|whisper|microphone|voice)`)
	wantsNLPRe     = regexp.MustCompile(`(?i)(nlp|language|text|rag|llm)`)
	wantsCVRe      = regexp.MustCompile(`(?i)(vision|opencv|image|segmentation|cnn)`)
	wantsBackendRe = regexp.MustCompile(`(?i)(api|backend|fastapi|docker)`)

	audioProjectRe   = regexp.MustCompile(`(?i)(whisper|audio|voice|speech|asr|tts)`)
	nlpProjectRe     = regexp.MustCompile(`(?i)(rag|langchain|llm|gpt|sbert|nlp)`)
	cvProjectRe      = regexp.MustCompile(`(?i)(opencv|segmentation|cnn|image|face)`)
	backendProjectRe = regexp.MustCompile(`(?i)(fastapi|docker|websocket|api)`)
)

// IsJobPostingQuery reports whether the query reads like a job posting
// or a capability-fit question.
func IsJobPostingQuery(query string) bool {
	return jobQueryRe.MatchString(query)
}

// ComposeJobFit renders a tailored capability digest: matched skill
// bullets, relevant projects, a contact line and a citation footer.
func (c *Composer) ComposeJobFit(query string) domain.Answer {
	ql := strings.ToLower(query)
	wantsAudio := wantsAudioRe.MatchString(ql)
	wantsNLP := wantsNLPRe.MatchString(ql)
	wantsCV := wantsCVRe.MatchString(ql)
	wantsBackend := wantsBackendRe.MatchString(ql)

	skillsItem := c.kb.Find(func(it *domain.KnowledgeItem) bool {
		return strings.Contains(strings.ToLower(it.Title), "skills") ||
			strings.Contains(strings.ToLower(it.Content), "skills") ||
			strings.Contains(it.TagLine(), "skills")
	})
	contactItem := c.kb.FindType(domain.ItemContact)

	var picked []*domain.KnowledgeItem
	for _, p := range c.kb.Projects() {
		if len(picked) == 3 {
			break
		}
		text := strings.ToLower(p.Title + " " + p.Content)
		switch {
		case wantsAudio && audioProjectRe.MatchString(text),
			wantsNLP && nlpProjectRe.MatchString(text),
			wantsCV && cvProjectRe.MatchString(text),
			wantsBackend && backendProjectRe.MatchString(text):
			picked = append(picked, p)
		}
	}
	if len(picked) == 0 {
		all := c.kb.Projects()
		if len(all) > 2 {
			all = all[:2]
		}
		picked = all
	}

	var bullets []string
	if wantsAudio {
		bullets = append(bullets, "Audio/Speech: Whisper, TTS, ASR (from Skills)")
	}
	if wantsNLP {
		bullets = append(bullets, "NLP/LLM: RAG, LangChain, GPT/LLaMA, SBERT")
	}
	if wantsCV {
		bullets = append(bullets, "Computer Vision: OpenCV, CNNs, Segmentation")
	}
	if wantsBackend {
		bullets = append(bullets, "Backend & APIs: FastAPI, Docker, WebSockets")
	}

	intro := "Here is how Zinal matches this role and related work:"
	if wantsAudio {
		intro = "Based on the audio-focused role, here is how Zinal matches and relevant work:"
	}

	var sb strings.Builder
	sb.WriteString("<p>")
	sb.WriteString(render.EscapeHTML(intro))
	sb.WriteString("</p>")

	if len(bullets) > 0 {
		sb.WriteString("<ul>")
		for _, b := range bullets {
			sb.WriteString("<li>")
			sb.WriteString(render.EscapeHTML(b))
			sb.WriteString("</li>")
		}
		sb.WriteString("</ul>")
	}

	if len(picked) > 0 {
		sb.WriteString("<p><strong>Relevant projects:</strong></p><ul>")
		for _, p := range picked {
			title := render.EscapeHTML(p.DisplayTitle())
			if p.Href != "" {
				sb.WriteString(fmt.Sprintf("<li><a href='%s' target='%s' rel='noopener'>%s</a></li>",
					p.Href, linkTarget(p.Href), title))
			} else {
				sb.WriteString("<li>" + title + "</li>")
			}
		}
		sb.WriteString("</ul>")
	}

	if contactItem != nil {
		sb.WriteString(fmt.Sprintf("<p><a href='#contact'>Contact section</a> — %s</p>",
			render.EscapeHTML(contactItem.Content)))
	}

	var sources []*domain.KnowledgeItem
	if skillsItem != nil {
		sources = append(sources, skillsItem)
	}
	sources = append(sources, picked...)
	sb.WriteString(citationFooterItems(sources))

	html := sb.String()
	return domain.Answer{
		HTML:   html,
		Plain:  render.PlainText(html),
		Source: domain.SourceJobFit,
	}
}
