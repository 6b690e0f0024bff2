// ABOUTME: Chat prompts for query extraction, recommendation, and translation
// ABOUTME: Few-shot turns are sent verbatim ahead of the user message
package llm

import (
	openai "github.com/sashabaranov/go-openai"
)

const extractQuerySystemPrompt = `You are part of an information retrieval system and your task is to extract relevant parts of user query that are then used for semantic search.`

var extractQueryShots = []openai.ChatCompletionMessage{
	{Role: openai.ChatMessageRoleUser, Content: "I want to learn linear algebra and programming."},
	{Role: openai.ChatMessageRoleAssistant, Content: "linear algebra and programming"},
	{Role: openai.ChatMessageRoleUser, Content: "financial modeling and strategy."},
	{Role: openai.ChatMessageRoleAssistant, Content: "financial modeling and strategy"},
	{Role: openai.ChatMessageRoleUser, Content: "show me courses on linear algebra and also programming."},
	{Role: openai.ChatMessageRoleAssistant, Content: "linear algebra and programming."},
}

const recommendSystemPrompt = `You are part of an information retrieval system and your task is to infer what courses would be the best for the user based on their query.
Format the response using Markdown syntax as follows:
[Course name](URL) - Course description.`

var recommendShots = []openai.ChatCompletionMessage{
	{
		Role: openai.ChatMessageRoleUser,
		Content: `Query: I want to learn about natural language processing. Retrieved courses: [{"code":"ELEC-E5550","name":"Statistical Natural Language Processing D","credits":"5","description":"After attending the course, the student knows how statistical and deep learning methods ...","url":"URL"}]`,
	},
	{
		Role: openai.ChatMessageRoleAssistant,
		Content: `Based on your query about natural language processing, here are some courses that you might be interested in:
1. [Statistical Natural Language Processing D](URL) - Covers statistical and deep learning methods used in various NLP applications like machine translation, sentiment analysis, and more.`,
	},
}

const translateSystemPrompt = `You translate Finnish university course descriptions into English.
Return only the translation. Keep course codes, names of people, and URLs unchanged.
If the text is already in English, return it unchanged.`
