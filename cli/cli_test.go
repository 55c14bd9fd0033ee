package cli

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"github.com/dartcam/dartscore/rimage"
	"github.com/dartcam/dartscore/scoring"
)

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	test.That(t, err, test.ShouldBeNil)
	defer f.Close()
	img, err := png.Decode(f)
	test.That(t, err, test.ShouldBeNil)
	return img
}

func TestScoreTable(t *testing.T) {
	out := scoreTable(scoring.Aggregate([]scoring.Hit{
		scoring.Normalize("t20", scoring.SchemePrefixed),
		scoring.Normalize("d3", scoring.SchemePrefixed),
	}))
	test.That(t, out, test.ShouldContainSubstring, "Triple 20")
	test.That(t, out, test.ShouldContainSubstring, "Double 3")
	test.That(t, out, test.ShouldContainSubstring, "66")

	out = scoreTable(scoring.Aggregate(nil))
	test.That(t, out, test.ShouldContainSubstring, "No darts detected")
}

func TestBoardAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.png")
	var out, errOut bytes.Buffer
	err := NewApp(&out, &errOut).Run([]string{
		"dartscore", "--env-file", "",
		"board", "--hit", "t20", "--hit", "db", "--size", "300", "--out", path,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.String(), test.ShouldContainSubstring, "110")

	img := decodePNG(t, path)
	test.That(t, img.Bounds().Dx(), test.ShouldEqual, 300)
}

func TestDetectAction(t *testing.T) {
	const keyVar = "DARTSCORE_CLI_TEST_KEY"
	t.Cleanup(func() { os.Unsetenv(keyVar) })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "from-dotenv" {
			http.Error(w, "unauthorized", http.StatusForbidden)
			return
		}
		fmt.Fprint(w, `{
			"image": {"width": 32, "height": 24},
			"predictions": [{"x": 16, "y": 12, "width": 8, "height": 8, "confidence": 0.93, "class": "t20"}]
		}`)
	}))
	defer server.Close()

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	test.That(t, os.WriteFile(envPath, []byte(keyVar+"=from-dotenv\n"), 0o600), test.ShouldBeNil)

	configPath := filepath.Join(dir, "config.json")
	test.That(t, os.WriteFile(configPath, []byte(fmt.Sprintf(`{
		"backend": {"type": "remote", "scheme": "prefixed"},
		"remote": {"endpoint": %q, "model": "darts", "version": "1", "api_key": "${%s}"},
		"render": {"board_size": 200},
		"log_level": "info"
	}`, server.URL, keyVar)), 0o600), test.ShouldBeNil)

	framePath := filepath.Join(dir, "frame.png")
	test.That(t, rimage.WriteImageToFile(framePath, image.NewRGBA(image.Rect(0, 0, 64, 48))), test.ShouldBeNil)

	outDir := filepath.Join(dir, "out")
	logPath := filepath.Join(dir, "dartscore.log")
	var out, errOut bytes.Buffer
	err := NewApp(&out, &errOut).Run([]string{
		"dartscore", "--env-file", envPath, "--log-file", logPath,
		"detect", "--config", configPath, "--image", framePath, "--out", outDir,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.String(), test.ShouldContainSubstring, "Triple 20")
	test.That(t, errOut.String(), test.ShouldContainSubstring, "1 dart detected")

	overlayImg := decodePNG(t, filepath.Join(outDir, overlayFileName))
	test.That(t, overlayImg.Bounds().Dx(), test.ShouldEqual, 64)
	boardImg := decodePNG(t, filepath.Join(outDir, boardFileName))
	test.That(t, boardImg.Bounds().Dx(), test.ShouldEqual, 200)

	logged, err := os.ReadFile(logPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(logged), test.ShouldContainSubstring, "detection finished")
}

func TestDetectActionMissingImage(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	test.That(t, os.WriteFile(configPath, []byte(`{
		"backend": {"type": "remote"},
		"remote": {"model": "darts", "version": "1", "api_key": "k"}
	}`), 0o600), test.ShouldBeNil)

	var out, errOut bytes.Buffer
	err := NewApp(&out, &errOut).Run([]string{
		"dartscore", "--env-file", "",
		"detect", "--config", configPath, "--image", filepath.Join(dir, "nope.jpg"),
	})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot open frame")
}
