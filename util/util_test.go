package util

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Utility Package", func() {
	Context("GenerateTLSConfig", func() {
		It("only sets verification without files", func() {
			tlsConfig, err := GenerateTLSConfig("", "", "", true)
			Expect(err).ToNot(HaveOccurred())
			Expect(tlsConfig.InsecureSkipVerify).To(BeTrue())
			Expect(tlsConfig.RootCAs).To(BeNil())
			Expect(tlsConfig.Certificates).To(BeEmpty())
		})

		It("returns error on a missing ca file", func() {
			_, err := GenerateTLSConfig("/does/not/exist.crt", "", "", false)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unable to read ca certificate"))
		})

		It("returns error on a ca file without certificates", func() {
			dir, err := ioutil.TempDir("", "cdc-util")
			Expect(err).ToNot(HaveOccurred())
			defer os.RemoveAll(dir)

			caFile := filepath.Join(dir, "ca.crt")
			Expect(ioutil.WriteFile(caFile, []byte("not a cert"), 0600)).To(Succeed())

			_, err = GenerateTLSConfig(caFile, "", "", false)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("no certificates found"))
		})

		It("requires both client cert and key", func() {
			_, err := GenerateTLSConfig("", "client.crt", "", false)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("must be set together"))
		})
	})

	Context("FileExists", func() {
		It("only reports regular files", func() {
			f, err := ioutil.TempFile("", "cdc-util")
			Expect(err).ToNot(HaveOccurred())
			f.Close()
			defer os.Remove(f.Name())

			Expect(FileExists(f.Name())).To(BeTrue())
			Expect(FileExists(os.TempDir())).To(BeFalse())
			Expect(FileExists("/does/not/exist")).To(BeFalse())
		})
	})

	Context("SplitIdentifier", func() {
		It("splits schema-qualified names", func() {
			Expect(SplitIdentifier("public.users")).To(Equal([]string{"public", "users"}))
			Expect(SplitIdentifier("users")).To(Equal([]string{"users"}))
			Expect(SplitIdentifier(" public . users ")).To(Equal([]string{"public", "users"}))
		})
	})

	Context("BackoffPolicy", func() {
		policy := BackoffPolicy{[]time.Duration{time.Second, 5 * time.Second}}

		It("walks the policy", func() {
			Expect(policy.Duration(0)).To(Equal(time.Second))
			Expect(policy.Duration(1)).To(Equal(5 * time.Second))
		})

		It("reuses the last entry", func() {
			Expect(policy.Duration(10)).To(Equal(5 * time.Second))
		})

		It("handles an empty policy", func() {
			Expect(BackoffPolicy{}.Duration(3)).To(Equal(time.Duration(0)))
		})
	})
})
