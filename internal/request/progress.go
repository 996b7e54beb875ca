package request

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// newUploadBar tracks bytes read from a streamed body. A size of -1 renders a spinner
func newUploadBar(w io.Writer, size int64, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)
}
