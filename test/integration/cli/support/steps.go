package support

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/MeKo-Tech/rasterlab/internal/imageio"
	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
	"github.com/MeKo-Tech/rasterlab/internal/testutil"
)

// RegisterSteps registers every step definition.
func (testCtx *TestContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^an? (\d+)x(\d+) (split|noise|ramp|checkerboard|gray) image "([^"]*)"$`, testCtx.anImage)
	sc.Step(`^a config file "([^"]*)" containing:$`, testCtx.aConfigFileContaining)
	sc.Step(`^the environment variable "([^"]*)" is set to "([^"]*)"$`, testCtx.theEnvironmentVariableIsSetTo)

	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)

	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should not contain "([^"]*)"$`, testCtx.theOutputShouldNotContain)
	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)

	sc.Step(`^the file "([^"]*)" should exist$`, testCtx.theFileShouldExist)
	sc.Step(`^the image "([^"]*)" should be (\d+)x(\d+)$`, testCtx.theImageShouldBe)
	sc.Step(`^every pixel of "([^"]*)" should be (black|white)$`, testCtx.everyPixelShouldBe)
	sc.Step(`^the image "([^"]*)" should only contain black and white$`, testCtx.theImageShouldBeBinary)
}

func (testCtx *TestContext) anImage(w, h int, kind, name string) error {
	var b *raster.Buffer
	switch kind {
	case "split":
		b = testutil.Split(w, h)
	case "noise":
		b = testutil.Noise(w, h, 42, false)
	case "ramp":
		b = testutil.HorizontalRamp(w, h)
	case "checkerboard":
		b = testutil.Checkerboard(w, h, 4)
	default:
		b = testutil.Solid(w, h, raster.FormatRGB, pixel.GrayPixel(128))
	}
	return imageio.Save(testCtx.Path(name), b)
}

func (testCtx *TestContext) aConfigFileContaining(name string, content *godog.DocString) error {
	return os.WriteFile(testCtx.Path(name), []byte(content.Content), 0o600)
}

func (testCtx *TestContext) theEnvironmentVariableIsSetTo(name, value string) error {
	testCtx.AddEnvVar(name, value)
	return nil
}

// iRunCommand runs a rasterlab command line in the scenario directory.
func (testCtx *TestContext) iRunCommand(command string) error {
	testCtx.LastCommand = command
	testCtx.LastStartTime = time.Now()

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty command")
	}
	if parts[0] == "rasterlab" {
		parts[0] = testCtx.BinPath
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...) //nolint:gosec // G204: test commands come from feature files
	cmd.Dir = testCtx.WorkDir
	cmd.Env = append(os.Environ(), testCtx.EnvVars...)

	output, err := cmd.CombinedOutput()
	testCtx.LastOutput = string(output)
	testCtx.LastError = err
	testCtx.LastDuration = time.Since(testCtx.LastStartTime)

	if err != nil {
		exitError := &exec.ExitError{}
		if errors.As(err, &exitError) {
			testCtx.LastExitCode = exitError.ExitCode()
		} else {
			testCtx.LastExitCode = -1
		}
	} else {
		testCtx.LastExitCode = 0
	}
	return nil
}

func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastExitCode != 0 {
		return fmt.Errorf("command failed with exit code %d: %w\nOutput: %s",
			testCtx.LastExitCode, testCtx.LastError, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("command succeeded when it should have failed\nOutput: %s", testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldContain(expectedText string) error {
	if !strings.Contains(testCtx.LastOutput, expectedText) {
		return fmt.Errorf("output does not contain '%s'\nActual output: %s", expectedText, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theOutputShouldNotContain(text string) error {
	if strings.Contains(testCtx.LastOutput, text) {
		return fmt.Errorf("output unexpectedly contains '%s'\nActual output: %s", text, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theErrorShouldMention(errorText string) error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("no error occurred, but expected error containing '%s'", errorText)
	}
	if !strings.Contains(strings.ToLower(testCtx.LastOutput), strings.ToLower(errorText)) {
		return fmt.Errorf("error does not contain '%s'\nActual error: %s", errorText, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theFileShouldExist(name string) error {
	if !testutil.FileExists(testCtx.Path(name)) {
		return fmt.Errorf("file does not exist: %s", testCtx.Path(name))
	}
	return nil
}

func (testCtx *TestContext) load(name string) (*raster.Buffer, error) {
	b, _, err := imageio.LoadBuffer(testCtx.Path(name), raster.FormatRGB)
	return b, err
}

func (testCtx *TestContext) theImageShouldBe(name string, w, h int) error {
	b, err := testCtx.load(name)
	if err != nil {
		return err
	}
	if b.Width() != w || b.Height() != h {
		return fmt.Errorf("image %s is %dx%d, want %dx%d", name, b.Width(), b.Height(), w, h)
	}
	return nil
}

func (testCtx *TestContext) everyPixelShouldBe(name, color string) error {
	b, err := testCtx.load(name)
	if err != nil {
		return err
	}
	want := pixel.Black
	if color == "white" {
		want = pixel.White
	}
	if !testutil.AllPixels(b, want) {
		return fmt.Errorf("image %s is not entirely %s", name, color)
	}
	return nil
}

func (testCtx *TestContext) theImageShouldBeBinary(name string) error {
	b, err := testCtx.load(name)
	if err != nil {
		return err
	}
	for i, p := range b.Pix() {
		if p != pixel.Black && p != pixel.White {
			return fmt.Errorf("image %s has non-binary pixel %#08x at index %d", name, p, i)
		}
	}
	return nil
}
