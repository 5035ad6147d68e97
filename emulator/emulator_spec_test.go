package emulator

import (
	"errors"
	"strings"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ezrec/akku/cpu"
	"github.com/ezrec/akku/io"
)

var _ = Describe("Emulator", func() {
	var (
		mockCtrl   *gomock.Controller
		mockInput  *MockInput
		mockOutput *MockOutput
		emu        *Emulator
	)

	load := func(program ...string) {
		asm := &cpu.Assembler{}
		prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
		Expect(err).NotTo(HaveOccurred())
		emu.Program = prog
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mockInput = NewMockInput(mockCtrl)
		mockOutput = NewMockOutput(mockCtrl)

		emu = NewEmulator()
		emu.Cpu.Input = mockInput
		emu.Cpu.Output = mockOutput
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should send each output in program order", func() {
		load(
			"ld 3",
			":loop",
			"out 0",
			"sub 1",
			"st a",
			"out a",
			"cmp 0",
			"jgt loop",
			"end",
		)

		gomock.InOrder(
			mockOutput.EXPECT().Send(int32(0)),
			mockOutput.EXPECT().Send(int32(2)),
			mockOutput.EXPECT().Send(int32(0)),
			mockOutput.EXPECT().Send(int32(1)),
			mockOutput.EXPECT().Send(int32(0)),
			mockOutput.EXPECT().Send(int32(0)),
		)

		Expect(emu.Run()).To(Succeed())
		Expect(emu.Cpu.Flag).To(Equal(cpu.FLAG_EQUAL))
	})

	It("should receive only when 'in' executes", func() {
		load(
			"in a",
			"in b",
			"ld a",
			"sub b",
			"st c",
			"out c",
			"end",
		)

		gomock.InOrder(
			mockInput.EXPECT().Receive().Return(int32(9), nil),
			mockInput.EXPECT().Receive().Return(int32(4), nil),
		)
		mockOutput.EXPECT().Send(int32(5))

		Expect(emu.Run()).To(Succeed())
		Expect(emu.Cpu.Memory[2]).To(Equal(int32(5)))
	})

	It("should not touch the channels when no 'in' or 'out' runs", func() {
		load(
			"jmp skip",
			"in a",
			"out a",
			":skip",
			"end",
		)

		Expect(emu.Run()).To(Succeed())
		Expect(emu.Ticks()).To(Equal(2))
	})

	It("should stop with the line of a failing input", func() {
		load(
			"ld 1",
			"out 1",
			"in a",
			"out 2",
			"end",
		)

		failure := errors.New("source closed")
		mockOutput.EXPECT().Send(int32(1))
		mockInput.EXPECT().Receive().Return(int32(0), failure)

		err := emu.Run()
		Expect(err).To(MatchError(failure))
		Expect(errors.Is(err, cpu.ErrInput)).To(BeTrue())

		var re *ErrRuntime
		Expect(errors.As(err, &re)).To(BeTrue())
		Expect(re.LineNo).To(Equal(3))
	})

	It("should stop at the first failing output", func() {
		load(
			"out 1",
			"out 2",
			"end",
		)

		mockOutput.EXPECT().Send(int32(1)).Return(io.ErrChannelInvalid)

		err := emu.Run()
		Expect(err).To(MatchError(io.ErrChannelInvalid))
		Expect(errors.Is(err, cpu.ErrOutput)).To(BeTrue())
		Expect(emu.Ticks()).To(Equal(1))
	})

	It("should not send after a runtime error", func() {
		load(
			"ld 10",
			"div a",
			"out 1",
			"end",
		)

		err := emu.Run()
		Expect(err).To(MatchError(cpu.ErrDivisionByZero))
		Expect(emu.LineNo()).To(Equal(3))
	})
})
