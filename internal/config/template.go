package config

// InitTemplate is the engram.yaml scaffold written by `engram init`.
const InitTemplate = `# engram configuration
name: %s
version: "1.0"

# User identifier: one persisted memory file exists per user.
user: default

storage:
  enabled: true
  driver: json        # json, sqlite, or memory (no persistence)
  dir: .engram

context:
  max_chars: 4000     # rendered context budget
  recent_window: 3    # recent interactions always included
  per_kind_limit: 5   # matched items per memory kind

logging:
  level: info         # debug, info, warn, error
  format: text        # text, json

metrics:
  enabled: false
  # path: .engram/metrics.jsonl

# Lifecycle hooks fire on memory events:
#   fact.stored, procedure.stored, interaction.stored,
#   context.generated, store.saved, store.save_failed
hooks:
  enabled: false
  hooks: []
  # - name: audit
  #   type: log
  #   level: info
  # - name: notify
  #   type: webhook
  #   url: ${env.ENGRAM_WEBHOOK_URL}
  #   events: [store.save_failed]

server:
  addr: 127.0.0.1:7390
`
