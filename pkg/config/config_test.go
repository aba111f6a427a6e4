package config

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	Describe("Dir", func() {
		It("prefers an explicit override and creates the directory", func() {
			override := filepath.Join(dir, "custom")

			got, err := Dir(override)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(override))
			Expect(got).To(BeADirectory())
		})
	})

	Describe("defaults", func() {
		It("loads defaults when no config file exists", func() {
			v, err := InitViper(dir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := Load(v)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Messaging.Type).To(Equal("mqtt"))
			Expect(cfg.Messaging.PromptTopic).To(Equal("ai/prompts"))
			Expect(cfg.Messaging.ResponseTopic).To(Equal("ai/responses"))
			Expect(cfg.Backend.MaxTokens).To(Equal(500))
			Expect(cfg.Backend.Temperature).To(Equal(0.7))
			Expect(cfg.Backend.SystemPrompt).To(Equal("You are a helpful assistant."))
			Expect(cfg.Storage.Driver).To(Equal("sqlite"))
			Expect(cfg.Dashboard.Listen).To(Equal(":8085"))
			Expect(cfg.Discovery.Enabled).To(BeFalse())
		})
	})

	Describe("file values", func() {
		It("round-trips a saved config through viper", func() {
			saved := NewDefaultConfig()
			saved.Messaging.Type = "kafka"
			saved.Messaging.Broker = "localhost:9092"
			saved.Backend.Model = "gpt-4o"
			saved.Storage.Driver = "postgres"
			saved.Storage.PostgresDSN = "postgres://relay@localhost/relay"

			Expect(Save(filepath.Join(dir, "config.toml"), saved)).To(Succeed())

			v, err := InitViper(dir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := Load(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Messaging.Type).To(Equal("kafka"))
			Expect(cfg.Messaging.Broker).To(Equal("localhost:9092"))
			Expect(cfg.Backend.Model).To(Equal("gpt-4o"))
			Expect(cfg.Storage.Driver).To(Equal("postgres"))
			Expect(cfg.Storage.PostgresDSN).To(Equal("postgres://relay@localhost/relay"))
		})

		It("keeps defaults for fields the file omits", func() {
			Expect(os.WriteFile(
				filepath.Join(dir, "config.toml"),
				[]byte("[messaging]\ntype = \"none\"\n"),
				0o600,
			)).To(Succeed())

			v, err := InitViper(dir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := Load(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Messaging.Type).To(Equal("none"))
			Expect(cfg.Backend.MaxTokens).To(Equal(500))
		})
	})

	Describe("environment overrides", func() {
		It("prefers RELAY_ environment variables over file values", func() {
			GinkgoT().Setenv("RELAY_MESSAGING_TYPE", "kafka")
			GinkgoT().Setenv("RELAY_BACKEND_API_KEY", "sk-from-env")

			v, err := InitViper(dir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := Load(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Messaging.Type).To(Equal("kafka"))
			Expect(cfg.Backend.APIKey).To(Equal("sk-from-env"))
		})
	})
})
