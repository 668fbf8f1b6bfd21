package main

import (
	. "github.com/saylorsolutions/modmake"
)

const (
	ikcxVersion = "0.1.0"
)

func main() {
	b := NewBuild()
	b.Generate().DependsOnRunner("tidy", "", Go().ModTidy())
	b.Test().Does(Go().TestAll())

	// The ikcx CLI is the only binary; library packages ship as source.
	ikcx := NewAppBuild("ikcx", "cmd/ikcx", ikcxVersion)
	ikcx.Build(func(gb *GoBuild) {
		gb.
			StripDebugSymbols().
			SetVariable("main", "version", ikcxVersion).
			CgoEnabled(false)
	})
	ikcx.Variant("windows", "amd64")
	ikcx.Variant("linux", "amd64")
	ikcx.Variant("linux", "arm64")
	ikcx.Variant("darwin", "amd64")
	ikcx.Variant("darwin", "arm64")
	b.ImportApp(ikcx)

	b.Execute()
}
