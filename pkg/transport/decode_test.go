package transport

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Decode", func() {
	Context("with a structured payload", func() {
		It("decodes all fields", func() {
			payload := []byte(`{
				"id": "corr-1",
				"threadId": "thread-1",
				"text": "hello",
				"systemPrompt": "You are terse.",
				"maxTokens": 100,
				"temperature": 0.2
			}`)

			req, fallback := Decode(payload, "")
			Expect(fallback).To(BeFalse())
			Expect(req.ID).To(Equal("corr-1"))
			Expect(req.ThreadID).To(Equal("thread-1"))
			Expect(req.Text).To(Equal("hello"))
			Expect(req.SystemPrompt).To(Equal("You are terse."))
			Expect(*req.MaxTokens).To(Equal(100))
			Expect(*req.Temperature).To(Equal(0.2))
		})

		It("fills a missing id from the broker message id", func() {
			req, fallback := Decode([]byte(`{"text": "hello"}`), "broker-msg-7")
			Expect(fallback).To(BeFalse())
			Expect(req.ID).To(Equal("broker-msg-7"))
		})

		It("prefers the payload id over the broker message id", func() {
			req, _ := Decode([]byte(`{"id": "corr-1", "text": "hello"}`), "broker-msg-7")
			Expect(req.ID).To(Equal("corr-1"))
		})

		It("leaves optional fields absent", func() {
			req, fallback := Decode([]byte(`{"text": "hello"}`), "")
			Expect(fallback).To(BeFalse())
			Expect(req.ThreadID).To(BeEmpty())
			Expect(req.SystemPrompt).To(BeEmpty())
			Expect(req.MaxTokens).To(BeNil())
			Expect(req.Temperature).To(BeNil())
		})
	})

	Context("with a malformed payload", func() {
		It("treats the entire payload as raw prompt text", func() {
			raw := []byte("turn on the kitchen lights")

			req, fallback := Decode(raw, "")
			Expect(fallback).To(BeTrue())
			Expect(req.Text).To(Equal(string(raw)))
			Expect(req.ThreadID).To(BeEmpty())
		})

		It("uses the broker message id as correlation id", func() {
			req, _ := Decode([]byte("not json"), "broker-msg-7")
			Expect(req.ID).To(Equal("broker-msg-7"))
		})

		It("falls back for structured payloads without text", func() {
			req, fallback := Decode([]byte(`{"threadId": "thread-1"}`), "")
			Expect(fallback).To(BeTrue())
			Expect(req.Text).To(Equal(`{"threadId": "thread-1"}`))
		})
	})
})
