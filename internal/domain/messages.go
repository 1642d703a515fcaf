package domain

import "strings"

// Messages holds the user-facing strings for one locale
type Messages struct {
	ToolNotInstalled        string
	UnknownTitle            string
	DownloadFailed          string
	InfoFailed              string
	AlreadyInProgress       string
	RuntimeMissing          string
	PackageManagerMissing   string
	InstallFailed           string
	DownloadDirUnresolvable string
	DownloadCompletedTitle  string
	DownloadFailedTitle     string
}

var messagesByLocale = map[string]Messages{
	"en": {
		ToolNotInstalled:        "you-get was not found, please check that it is installed",
		UnknownTitle:            "Unknown title",
		DownloadFailed:          "Download failed",
		InfoFailed:              "Failed to fetch video info",
		AlreadyInProgress:       "Another download is in progress",
		RuntimeMissing:          "Python is not installed, please install Python before installing you-get",
		PackageManagerMissing:   "pip was not found, please make sure Python is installed and pip is available",
		InstallFailed:           "Failed to install you-get",
		DownloadDirUnresolvable: "Unable to determine the system download directory",
		DownloadCompletedTitle:  "Download completed",
		DownloadFailedTitle:     "Download failed",
	},
	"zh": {
		ToolNotInstalled:        "未找到 you-get，请检查是否已安装",
		UnknownTitle:            "未知标题",
		DownloadFailed:          "下载失败",
		InfoFailed:              "获取视频信息失败",
		AlreadyInProgress:       "已有下载正在进行",
		RuntimeMissing:          "未安装 Python，请手动安装 Python 后再安装 you-get",
		PackageManagerMissing:   "未找到 pip，请确保 Python 已安装并且 pip 可用",
		InstallFailed:           "安装 you-get 失败",
		DownloadDirUnresolvable: "无法获取系统下载目录",
		DownloadCompletedTitle:  "下载完成",
		DownloadFailedTitle:     "下载失败",
	},
}

// MessagesFor returns the messages for a locale such as "zh" or "zh-CN".
// Unknown locales fall back to English.
func MessagesFor(locale string) Messages {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if m, ok := messagesByLocale[locale]; ok {
		return m
	}
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		if m, ok := messagesByLocale[locale[:i]]; ok {
			return m
		}
	}
	return messagesByLocale["en"]
}
