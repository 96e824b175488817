package extract

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"fea/common"
	"fea/fattura"
)

// writeAttachment persists a decoded attachment either next to its source
// document or under outDir when set. With SafetyLow existing files are
// overwritten, with any other policy the write refuses an existing target
// (exclusive create, so the check is race-free). Failures are reported and
// swallowed - the batch continues.
func writeAttachment(att *fattura.Attachment, outDir string, safety common.Safety, log *zap.Logger) {
	dir := att.Dir
	if len(outDir) > 0 {
		dir = outDir
	}
	target := filepath.Join(dir, att.Filename)

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if safety == common.SafetyLow {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(target, flags, 0644)
	if err != nil {
		log.Error("Unable to write attachment", zap.String("target", target), zap.Error(err))
		return
	}
	_, err = f.Write(att.Data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Error("Unable to write attachment", zap.String("target", target), zap.Error(err))
		return
	}
	log.Info("Attachment written", zap.String("target", target))
}
