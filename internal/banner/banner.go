package banner

import (
	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
)

func Print() {
	fig := figure.NewColorFigure("FORMSCOUT", "doom", "cyan", true)
	fig.Print()

	gray := color.New(color.FgHiBlack)
	_, _ = gray.Println("  submission form discovery scanner")
}
