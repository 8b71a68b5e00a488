package config

const (
	DEFAULT_API_URL        = "http://127.0.0.1:8000/api/v1/contacts"
	DEFAULT_API_TIMEOUT    = "10s"
	DEFAULT_NOTICE_TTL     = "5s"
	DEFAULT_WATCH_INTERVAL = "30s"
)

// DEFAULT_AGENDA_YML is written to the config path on first run
const DEFAULT_AGENDA_YML = `# Contacts collection resource used by every command
api:
  url: "http://127.0.0.1:8000/api/v1/contacts"
  timeout: 10s

# How long error/success messages stay visible
notices:
  ttl: 5s

# Refresh interval for 'agenda watch'
watch:
  interval: 30s
`
