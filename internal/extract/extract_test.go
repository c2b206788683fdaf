package extract_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"draftdeck.app/refinery/internal/extract"
	"draftdeck.app/refinery/internal/model"
)

var _ = Describe("Extract", func() {
	Context("partial field independence", func() {
		It("returns only the title when only a title marker is present", func() {
			upd := extract.Extract("Title: Foo", model.WorkItemStory)

			Expect(upd).NotTo(BeNil())
			Expect(upd.Title).NotTo(BeNil())
			Expect(*upd.Title).To(Equal("Foo"))
			Expect(upd.Description).To(BeNil())
			Expect(upd.Acceptance).To(BeNil())
		})

		It("returns only the description when only that marker is present", func() {
			upd := extract.Extract("Description: refine the flow", model.WorkItemStory)

			Expect(upd.Title).To(BeNil())
			Expect(*upd.Description).To(Equal("refine the flow"))
			Expect(upd.Acceptance).To(BeNil())
		})

		It("returns two fields when two markers are present", func() {
			upd := extract.Extract("Title: Foo\nDescription: Bar", model.WorkItemStory)

			Expect(*upd.Title).To(Equal("Foo"))
			Expect(*upd.Description).To(Equal("Bar"))
			Expect(upd.Acceptance).To(BeNil())
		})

		It("returns nil when no marker is present", func() {
			Expect(extract.Extract("just chatting about the weather", model.WorkItemStory)).To(BeNil())
		})
	})

	Context("list parsing", func() {
		It("splits numbered lines into ordered elements", func() {
			upd := extract.Extract("Acceptance Criteria: 1. A\n2. B\n3. C", model.WorkItemStory)

			Expect(upd).NotTo(BeNil())
			Expect(upd.Acceptance).To(Equal([]string{"A", "B", "C"}))
		})

		It("keeps a single unnumbered remainder as a one-element list", func() {
			upd := extract.Extract("Acceptance Criteria: just one line no numbers", model.WorkItemStory)

			Expect(upd.Acceptance).To(Equal([]string{"just one line no numbers"}))
		})

		It("uses the Steps marker for issues", func() {
			upd := extract.Extract("Steps:\n1. reproduce\n2. profile", model.WorkItemIssue)

			Expect(upd.Acceptance).To(Equal([]string{"reproduce", "profile"}))
		})

		It("does not populate a list for types without a list grammar", func() {
			upd := extract.Extract("Title: Foo\nAcceptance Criteria: 1. A", model.WorkItemFeature)

			Expect(upd).NotTo(BeNil())
			Expect(*upd.Title).To(Equal("Foo"))
			Expect(upd.Acceptance).To(BeNil())
		})
	})

	Context("marker tolerance", func() {
		It("is case-insensitive", func() {
			upd := extract.Extract("TITLE: Foo\ndescription: Bar", model.WorkItemStory)

			Expect(*upd.Title).To(Equal("Foo"))
			Expect(*upd.Description).To(Equal("Bar"))
		})

		It("tolerates dash dividers around the block", func() {
			text := "Sounds good!\n---\nTitle: Foo\nDescription: Bar\n---"
			upd := extract.Extract(text, model.WorkItemStory)

			Expect(*upd.Title).To(Equal("Foo"))
			Expect(*upd.Description).To(Equal("Bar"))
		})

		It("full template yields all three fields", func() {
			text := "Here you go.\nTitle: Sign-in\nDescription: Single sign-on for the dashboard\nAcceptance Criteria:\n1. Redirect works\n2. Errors are actionable"
			upd := extract.Extract(text, model.WorkItemStory)

			Expect(*upd.Title).To(Equal("Sign-in"))
			Expect(*upd.Description).To(Equal("Single sign-on for the dashboard"))
			Expect(upd.Acceptance).To(Equal([]string{"Redirect works", "Errors are actionable"}))
		})
	})
})

var _ = Describe("Complete", func() {
	It("holds for title, description, and at least one numbered list item in order", func() {
		text := "Title: Foo\nDescription: Bar\nAcceptance Criteria:\n1. works"
		Expect(extract.Complete(text)).To(BeTrue())
	})

	It("accepts Steps as the list marker", func() {
		text := "Title: Foo\nDescription: Bar\nSteps:\n1. reproduce"
		Expect(extract.Complete(text)).To(BeTrue())
	})

	It("fails with only a title, even though the title still extracts", func() {
		Expect(extract.Complete("Title: Foo")).To(BeFalse())
		Expect(extract.Extract("Title: Foo", model.WorkItemStory).Title).NotTo(BeNil())
	})

	It("fails without a numbered line after the list marker", func() {
		text := "Title: Foo\nDescription: Bar\nAcceptance Criteria:\nno numbers here"
		Expect(extract.Complete(text)).To(BeFalse())
	})

	It("fails when markers are out of order", func() {
		text := "Description: Bar\nTitle: Foo\nAcceptance Criteria:\n1. works"
		Expect(extract.Complete(text)).To(BeFalse())
	})
})

var _ = Describe("SplitPreamble", func() {
	It("separates conversational text from the template body", func() {
		preamble, body := extract.SplitPreamble("Great, here's the update.\n---\nTitle: Foo")

		Expect(preamble).To(Equal("Great, here's the update."))
		Expect(body).To(HavePrefix("Title:"))
	})

	It("treats marker-free text as all preamble", func() {
		preamble, body := extract.SplitPreamble("what would you like to build?")

		Expect(preamble).To(Equal("what would you like to build?"))
		Expect(body).To(BeEmpty())
	})
})
