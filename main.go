package main

import (
	"fmt"
	"log"
	"path/filepath"

	"fyne.io/fyne/v2/app"

	"github.com/yotoup/card-studio/internal/api"
	"github.com/yotoup/card-studio/internal/audio"
	"github.com/yotoup/card-studio/internal/config"
	"github.com/yotoup/card-studio/internal/editor"
	"github.com/yotoup/card-studio/internal/platform"
	"github.com/yotoup/card-studio/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.yotoup.card-studio"
	AppName = "Yoto Card Studio"
)

func main() {
	fmt.Printf("%s v%s starting...\n", AppName, version)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewStudioTheme())

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))

	// Initialize services
	settingsPath, err := platform.SettingsFilePath()
	if err != nil {
		log.Printf("Failed to resolve config dir, using working directory: %v", err)
		settingsPath = filepath.Join(".", platform.SettingsFileName)
	}
	store := config.NewStore(settingsPath)

	tokensPath, err := platform.TokensFilePath()
	if err != nil {
		log.Printf("Failed to resolve config dir, using working directory: %v", err)
		tokensPath = filepath.Join(".", platform.TokensFileName)
	}
	client := api.NewClient(tokensPath)

	saveSvc := editor.NewService(client)
	audioSvc := audio.NewService()

	// Create and setup UI
	ui.NewRootUI(myWindow, store, client, saveSvc, audioSvc)

	// Show and run
	myWindow.ShowAndRun()
}
