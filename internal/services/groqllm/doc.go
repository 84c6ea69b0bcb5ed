// Package groqllm adapts the Groq chat completion API to the translation
// provider contract. It is the low-latency alternative to the
// OpenAI-compatible client and is selected with translator.provider = "groq".
package groqllm
