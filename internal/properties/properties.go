package properties

import "os"

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}
func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}
func DiscordWarnNotificationUrl() string {
	return os.Getenv("DISCORD_WARN_NOTIFICATION_URL")
}

func CopernicusClientIDs() string {
	return os.Getenv("COPERNICUS_CLIENT_ID")
}
func CopernicusClientSecrets() string {
	return os.Getenv("COPERNICUS_CLIENT_SECRET")
}
func CopernicusTokenURL() string {
	return os.Getenv("COPERNICUS_TOKEN_URL")
}
