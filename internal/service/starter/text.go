package starter

import (
	"strings"

	"github.com/fatih/color"

	"github.com/oshokin/app-starter/internal/domain/template"
)

// ionicViewURL is where the Ionic View app is downloaded.
const ionicViewURL = "http://view.ionic.io"

// nameColumnWidth is the column the template type starts at in the template list.
const nameColumnWidth = 20

//nolint:gochecknoglobals // Color helpers are stateless.
var (
	bold  = color.New(color.Bold).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
)

// TemplateListText renders the starter list shown by the `templates` command.
func TemplateListText(starters []template.Starter) string {
	var builder strings.Builder

	builder.WriteString("\n    ")
	builder.WriteString(bold("Ionic Starter templates"))
	builder.WriteString("\n")

	for _, line := range TemplateListLines(starters) {
		builder.WriteString("      ")
		builder.WriteString(line)
		builder.WriteString("\n")
	}

	return builder.String()
}

// TemplateListLines renders one line per starter: the name, a dotted leader
// up to the type column, the type and the description.
func TemplateListLines(starters []template.Starter) []string {
	lines := make([]string, 0, len(starters))

	for _, starter := range starters {
		dots := max(nameColumnWidth-1-len(starter.Name), 0)

		lines = append(lines, green(starter.Name)+" "+dim(strings.Repeat(".", dots))+" "+
			bold(starter.Type)+" "+starter.Description)
	}

	return lines
}

// HelloText is printed once a project is ready.
func HelloText(projectDir string) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(bold("♬ ♫ ♬ ♫  Your Ionic app is ready to go! ♬ ♫ ♬ ♫"))
	builder.WriteString("\n\n")
	builder.WriteString(bold("Go into your project:"))
	builder.WriteString("\n  ")
	builder.WriteString(green("cd " + projectDir))
	builder.WriteString("\n\n")
	builder.WriteString(bold("Run your app in the browser (great for initial development):"))
	builder.WriteString("\n  ")
	builder.WriteString(green("ionic serve"))
	builder.WriteString("\n\n")
	builder.WriteString(bold("Run on a device or simulator:"))
	builder.WriteString("\n  ")
	builder.WriteString(green("ionic cordova run ios"))
	builder.WriteString("\n\n")
	builder.WriteString(bold("Test and share your app on a device with the Ionic View app:"))
	builder.WriteString("\n  ")
	builder.WriteString(ionicViewURL)
	builder.WriteString("\n")

	return builder.String()
}
