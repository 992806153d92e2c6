package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/draftui",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Repository: RepositoryConfig{
			Backend:      BackendLocal,
			BaseURL:      "http://localhost:8080",
			LanguageCode: "eng-GB",
		},
		Editor: EditorConfig{
			ParentLocationID:      2,
			ContentTypeIdentifier: "article",
			NotificationTimeout:   5,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# draftui System Configuration
# Location: ~/.config/draftui/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the local repository, user config and logs are stored
data_directory = "~/.local/share/draftui"
`
}

func GenerateUserConfigTemplate() string {
	return `# draftui User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[repository]
# "local" keeps contents in <data_directory>/repository.db
# "rest" talks to a content repository REST API
backend = "local"

# REST API root (only used by the rest backend)
base_url = "http://localhost:8080"

# Basic auth credentials for the REST API (optional)
username = ""
password = ""

# Language drafts are edited in
language_code = "eng-GB"

[editor]
# Location new contents are created under
parent_location_id = 2

# Content type used when creating content
content_type_identifier = "article"

# Seconds before "done" notifications are dismissed
notification_timeout = 5
`
}
