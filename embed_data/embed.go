package embed_data

import _ "embed"

//go:embed templates/report_header.html
var ReportHeaderTemplate []byte

//go:embed templates/report_task.html
var ReportTaskTemplate []byte
