// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploycmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	luxlog "github.com/luxfi/log"
	"github.com/luxfi/pxe-deploy/cmd/deploycmd"
	"github.com/luxfi/pxe-deploy/internal/testutils"
	"github.com/luxfi/pxe-deploy/pkg/addresses"
	"github.com/luxfi/pxe-deploy/pkg/application"
	"github.com/luxfi/pxe-deploy/pkg/config"
	"github.com/luxfi/pxe-deploy/pkg/constants"
	"github.com/luxfi/pxe-deploy/pkg/pxe"
	ginkgo "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/spf13/viper"
)

func runDeploy(args ...string) (string, error) {
	return runDeployWithLoggers(luxlog.Noop(), luxlog.Noop(), args...)
}

func runDeployWithLoggers(log, fileLog luxlog.Logger, args ...string) (string, error) {
	v := viper.New()
	config.SetDefaults(v)
	gomega.Expect(config.BindEnv(v)).To(gomega.Succeed())
	app := application.New()
	app.Setup(ginkgo.GinkgoT().TempDir(), v)
	app.SetLoggers(log, fileLog)

	var out bytes.Buffer
	cmd := deploycmd.NewCmd(app)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

var _ = ginkgo.Describe("[deploy]", func() {
	var (
		fake          *testutils.FakePXE
		endpoint      string
		addressesFile string
	)

	ginkgo.BeforeEach(func() {
		ginkgo.GinkgoT().Setenv(constants.PXEURLEnvVar, "")
		fake = testutils.NewFakePXE(testutils.DefaultTestAccounts)
		fake.PendingPolls = 1
		endpoint = testutils.Serve(ginkgo.GinkgoT(), fake)
		addressesFile = filepath.Join(ginkgo.GinkgoT().TempDir(), constants.DefaultAddressesFile)
	})

	ginkgo.It("deploys with fixture identities and records the address", func() {
		output, err := runDeploy(
			"--pxe-url", endpoint,
			"--addresses-file", addressesFile,
			"--poll-interval", "1ms",
		)
		gomega.Expect(err).Should(gomega.BeNil())

		address, err := addresses.Lookup(addressesFile, constants.DefaultContractName)
		gomega.Expect(err).Should(gomega.BeNil())

		lines := []string{
			"Connected to PXE at " + endpoint,
			"Resolved 3 identities",
			"Loaded contract artifact PublicGroups",
			"Submitted deployment of PublicGroups",
			"Contract deployed at " + address.Hex(),
			"Deployment completed. Contract Address: " + address.Hex(),
		}
		last := -1
		for _, line := range lines {
			idx := strings.Index(output, line)
			gomega.Expect(idx).Should(gomega.BeNumerically(">", last), line)
			last = idx
		}
		gomega.Expect(fake.SentTxs()).To(gomega.HaveLen(1))
	})

	ginkgo.It("reads the endpoint from PXE_URL", func() {
		ginkgo.GinkgoT().Setenv(constants.PXEURLEnvVar, endpoint)
		_, err := runDeploy("--addresses-file", addressesFile, "--poll-interval", "1ms")
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(addressesFile).To(gomega.BeAnExistingFile())
	})

	ginkgo.It("deploys from a freshly registered account", func() {
		output, err := runDeploy(
			"--pxe-url", endpoint,
			"--addresses-file", addressesFile,
			"--poll-interval", "1ms",
			"--strategy", "fresh",
			"--scheme", string(pxe.ECDSAScheme),
			"--show-identities",
		)
		gomega.Expect(err).Should(gomega.BeNil())
		registered := fake.Registered()
		gomega.Expect(registered).To(gomega.HaveLen(1))
		gomega.Expect(output).To(gomega.ContainSubstring(registered[0].CompleteAddress.Address.Hex()))
		gomega.Expect(fake.SentTxs()[0].Sender).To(gomega.Equal(registered[0].CompleteAddress.Address))
	})

	ginkgo.It("records the address under a custom name", func() {
		_, err := runDeploy(
			"--pxe-url", endpoint,
			"--addresses-file", addressesFile,
			"--contract-name", "groups",
			"--poll-interval", "1ms",
		)
		gomega.Expect(err).Should(gomega.BeNil())
		recorded, err := addresses.Read(addressesFile)
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(recorded).To(gomega.HaveKey("groups"))
		gomega.Expect(recorded).To(gomega.HaveLen(1))
	})

	ginkgo.It("fails without touching the address file when the PXE is unreachable", func() {
		previous := []byte(`{"group_contract": "0x01"}`)
		gomega.Expect(os.WriteFile(addressesFile, previous, constants.WriteReadReadPerms)).To(gomega.Succeed())

		output, err := runDeploy(
			"--pxe-url", testutils.UnreachableEndpoint(ginkgo.GinkgoT()),
			"--addresses-file", addressesFile,
		)
		gomega.Expect(err).Should(gomega.MatchError(constants.ErrConnectivity))
		gomega.Expect(output).To(gomega.ContainSubstring("Deployment failed"))

		content, err := os.ReadFile(addressesFile)
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(content).To(gomega.Equal(previous))
	})

	ginkgo.It("leaves the failure reason to the returned error", func() {
		log, logs := testutils.NewLogBuffer(luxlog.DebugLevel)
		fileLog, fileLogs := testutils.NewLogBuffer(luxlog.DebugLevel)

		output, err := runDeployWithLoggers(log, fileLog,
			"--pxe-url", testutils.UnreachableEndpoint(ginkgo.GinkgoT()),
			"--addresses-file", addressesFile,
		)
		gomega.Expect(err).Should(gomega.MatchError(constants.ErrConnectivity))
		gomega.Expect(output).To(gomega.ContainSubstring("Deployment failed"))
		gomega.Expect(output).ToNot(gomega.ContainSubstring(err.Error()))

		for _, entry := range logs.Entries() {
			gomega.Expect(entry["level"]).ToNot(gomega.Equal("error"))
		}
		var reasons []interface{}
		for _, entry := range fileLogs.Entries() {
			if reason, ok := entry["error"]; ok {
				reasons = append(reasons, reason)
			}
		}
		gomega.Expect(reasons).To(gomega.Equal([]interface{}{err.Error()}))
	})

	ginkgo.It("rejects an invalid endpoint before connecting", func() {
		_, err := runDeploy("--pxe-url", "localhost:8080", "--addresses-file", addressesFile)
		gomega.Expect(err).Should(gomega.MatchError(constants.ErrInvalidEndpoint))
		gomega.Expect(addressesFile).ToNot(gomega.BeAnExistingFile())
	})

	ginkgo.It("rejects an unknown strategy", func() {
		_, err := runDeploy("--pxe-url", endpoint, "--strategy", "borrowed")
		gomega.Expect(err).Should(gomega.HaveOccurred())
		gomega.Expect(fake.SentTxs()).To(gomega.BeEmpty())
	})
})
