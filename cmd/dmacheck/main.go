//go:build rp2040 || rp2350

// Command dmacheck dumps the UART0 and echo DMA channel registers before and
// after bring-up, then runs one loopback frame. Wire GP0 to GP1 first.
package main

import (
	"device/rp"
	"runtime/volatile"
	"time"
	"unsafe"

	"github.com/jangala-dev/tinygo-dmaecho/dmaecho"
	"github.com/jangala-dev/tinygo-dmaecho/rp2"
)

type channelRegs struct {
	READ_ADDR   uint32
	WRITE_ADDR  uint32
	TRANS_COUNT uint32
	CTRL_TRIG   uint32
}

func readChannel(id uint8) channelRegs {
	base := unsafe.Pointer(uintptr(unsafe.Pointer(&rp.DMA.CH0_READ_ADDR)) + uintptr(id)*0x40)
	regs := (*[4]volatile.Register32)(base)
	return channelRegs{
		READ_ADDR:   regs[0].Get(),
		WRITE_ADDR:  regs[1].Get(),
		TRANS_COUNT: regs[2].Get(),
		CTRL_TRIG:   regs[3].Get(),
	}
}

func main() {
	time.Sleep(2 * time.Second)

	println("Before bring-up:")
	report()

	res, err := rp2.Bringup()
	if err != nil {
		println("fatal:", err.Error())
		return
	}

	println("After Bringup():")
	report()

	*res.TxBuf = dmaecho.Buffer{'d', 'm', 'a', 'c', 'h', 'e', 'c', 'k', '-', '0', '0', '1'}
	recv := dmaecho.ReadExact(res.Rx, res.RxBuf, res.RxCh)
	send := dmaecho.WriteAll(res.Tx, res.TxBuf, res.TxCh)

	println("Transfers armed:")
	report()

	deadline := time.Now().Add(time.Second)
	for !(send.Done() && recv.Done()) {
		if time.Now().After(deadline) {
			println("timeout: tx done=", send.Done(), " rx done=", recv.Done())
			report()
			halt()
		}
		time.Sleep(time.Millisecond)
	}
	send.Wait()
	rxBuf, _, _ := recv.Wait()

	println("After loopback:")
	report()
	println("loopback match=", *rxBuf == *res.TxBuf)

	halt()
}

func halt() {
	for {
		time.Sleep(time.Second)
	}
}

func report() {
	u := rp.UART0
	println("-----------------------------")
	print("UARTCR   = 0x")
	printlnHex(u.UARTCR.Get())
	print("UARTLCR_H= 0x")
	printlnHex(u.UARTLCR_H.Get())
	print("UARTFR   = 0x")
	printlnHex(u.UARTFR.Get())
	print("UARTIBRD = 0x")
	printlnHex(u.UARTIBRD.Get())
	print("UARTFBRD = 0x")
	printlnHex(u.UARTFBRD.Get())
	print("UARTDMACR= 0x")
	printlnHex(u.UARTDMACR.Get())

	for _, id := range []uint8{rp2.TxChannel, rp2.RxChannel} {
		c := readChannel(id)
		println("DMA channel", id)
		print("  READ_ADDR  = 0x")
		printlnHex(c.READ_ADDR)
		print("  WRITE_ADDR = 0x")
		printlnHex(c.WRITE_ADDR)
		print("  TRANS_COUNT= 0x")
		printlnHex(c.TRANS_COUNT)
		print("  CTRL_TRIG  = 0x")
		printlnHex(c.CTRL_TRIG)
	}
	print("DMA INTR = 0x")
	printlnHex(rp.DMA.INTR.Get())
}

func printlnHex(v uint32) {
	const hexdigits = "0123456789abcdef"
	var b [8]byte
	for i := 0; i < 8; i++ {
		shift := uint(28 - 4*i)
		b[i] = hexdigits[(v>>shift)&0xF]
	}
	println(string(b[:]))
}
