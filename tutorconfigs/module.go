package tutorconfigs

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tutor/configs"
	"github.com/reusee/tutor/logs"
)

type Module struct {
	dscope.Module
	Configs configs.Module
	Logs    logs.Module
}
