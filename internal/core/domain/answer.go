package domain

// AnswerSource records which path produced an answer.
type AnswerSource string

// Answer sources, in order of preference.
const (
	SourceLLM           AnswerSource = "llm"
	SourceCachedLLM     AnswerSource = "cached_llm"
	SourceKnowledgeBase AnswerSource = "knowledge_base"
	SourceJobFit        AnswerSource = "job_posting_matcher"
)

// Answer is a fully rendered assistant reply.
type Answer struct {
	// HTML is the sanitisable markup shown to the user.
	HTML string

	// Plain is the tag-stripped text stored in the conversation history.
	Plain string

	// Source records which pipeline produced the answer.
	Source AnswerSource
}
