package usbwatch

import (
	"context"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"
)

type (
	cfAllocatorRef   uintptr
	cfDictionaryRef  uintptr
	cfIndex          int64
	cfNumberRef      uintptr
	cfRunLoopRef     uintptr
	cfStringRef      uintptr
	cfTypeRef        uintptr
	cfStringEncoding uint32

	ioHIDDeviceRef  uintptr
	ioHIDManagerRef uintptr
	ioOptionBits    uint32
	ioReturn        int32
)

const (
	cfAllocatorDefault   cfAllocatorRef   = 0
	cfNumberSInt16Type   cfIndex          = 2
	cfStringEncodingUTF8 cfStringEncoding = 0x08000100

	ioHIDOptionsNone ioOptionBits = 0
	ioReturnSuccess  ioReturn     = 0
)

var (
	cfNumberGetValue        func(number cfNumberRef, theType cfIndex, valuePtr unsafe.Pointer) bool
	cfRelease               func(cf cfTypeRef)
	cfRunLoopGetCurrent     func() cfRunLoopRef
	cfRunLoopRun            func()
	cfRunLoopStop           func(runLoop cfRunLoopRef)
	cfStringCreateWithBytes func(alloc cfAllocatorRef, bytes []byte, numBytes cfIndex, encoding cfStringEncoding, external bool) cfStringRef

	ioHIDDeviceGetProperty          func(device ioHIDDeviceRef, key cfStringRef) cfTypeRef
	ioHIDManagerCreate              func(allocator cfAllocatorRef, options ioOptionBits) ioHIDManagerRef
	ioHIDManagerOpen                func(manager ioHIDManagerRef, options ioOptionBits) ioReturn
	ioHIDManagerClose               func(manager ioHIDManagerRef, options ioOptionBits) ioReturn
	ioHIDManagerSetDeviceMatching   func(manager ioHIDManagerRef, matching cfDictionaryRef)
	ioHIDManagerRegisterMatchingCB  func(manager ioHIDManagerRef, callback uintptr, context unsafe.Pointer)
	ioHIDManagerScheduleWithRunLoop func(manager ioHIDManagerRef, runLoop cfRunLoopRef, mode cfStringRef)

	runLoopDefaultMode uintptr
)

func init() {
	cf := dlopen("/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation")
	purego.RegisterLibFunc(&cfNumberGetValue, cf, "CFNumberGetValue")
	purego.RegisterLibFunc(&cfRelease, cf, "CFRelease")
	purego.RegisterLibFunc(&cfRunLoopGetCurrent, cf, "CFRunLoopGetCurrent")
	purego.RegisterLibFunc(&cfRunLoopRun, cf, "CFRunLoopRun")
	purego.RegisterLibFunc(&cfRunLoopStop, cf, "CFRunLoopStop")
	purego.RegisterLibFunc(&cfStringCreateWithBytes, cf, "CFStringCreateWithBytes")

	var err error
	runLoopDefaultMode, err = purego.Dlsym(cf, "kCFRunLoopDefaultMode")
	if err != nil {
		panic(err)
	}

	iokit := dlopen("/System/Library/Frameworks/IOKit.framework/IOKit")
	purego.RegisterLibFunc(&ioHIDDeviceGetProperty, iokit, "IOHIDDeviceGetProperty")
	purego.RegisterLibFunc(&ioHIDManagerCreate, iokit, "IOHIDManagerCreate")
	purego.RegisterLibFunc(&ioHIDManagerOpen, iokit, "IOHIDManagerOpen")
	purego.RegisterLibFunc(&ioHIDManagerClose, iokit, "IOHIDManagerClose")
	purego.RegisterLibFunc(&ioHIDManagerSetDeviceMatching, iokit, "IOHIDManagerSetDeviceMatching")
	purego.RegisterLibFunc(&ioHIDManagerRegisterMatchingCB, iokit, "IOHIDManagerRegisterDeviceMatchingCallback")
	purego.RegisterLibFunc(&ioHIDManagerScheduleWithRunLoop, iokit, "IOHIDManagerScheduleWithRunLoop")
}

func dlopen(path string) uintptr {
	lib, err := purego.Dlopen(path, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		panic(err)
	}
	return lib
}

// subscriber receives arrivals for one vendor. IOKit callbacks carry no Go
// state, so the active subscriber lives in a package variable; one watcher
// runs at a time.
type subscriber struct {
	ch       chan<- struct{}
	vendorID uint16
	logger   *zap.SugaredLogger
}

var (
	activeMu sync.Mutex
	active   *subscriber
)

var matchingCallback = purego.NewCallback(onDeviceMatched)

func onDeviceMatched(_ unsafe.Pointer, _ ioReturn, _ uintptr, device ioHIDDeviceRef) {
	activeMu.Lock()
	sub := active
	activeMu.Unlock()
	if sub == nil {
		return
	}

	vid, ok := vendorID(device)
	if !ok || vid != sub.vendorID {
		return
	}
	sub.logger.Infow("USB device arrived", "vendor", vid)
	notify(sub.ch)
}

func vendorID(device ioHIDDeviceRef) (uint16, bool) {
	key := []byte("VendorID")
	skey := cfStringCreateWithBytes(cfAllocatorDefault, key, cfIndex(len(key)), cfStringEncodingUTF8, false)
	if skey == 0 {
		return 0, false
	}
	defer cfRelease(cfTypeRef(skey))

	prop := ioHIDDeviceGetProperty(device, skey)
	if prop == 0 {
		return 0, false
	}
	var vid uint16
	if !cfNumberGetValue(cfNumberRef(prop), cfNumberSInt16Type, unsafe.Pointer(&vid)) {
		return 0, false
	}
	return vid, true
}

// Watch returns a channel signalled each time a HID device with vendorID
// appears on the bus. Waiting costs no CPU: IOKit calls back on a dedicated
// run loop thread, which exits when ctx is cancelled.
func Watch(ctx context.Context, vendorID uint16, logger *zap.SugaredLogger) <-chan struct{} {
	ch := make(chan struct{}, 1)
	logger = logger.Named("usbwatch")

	activeMu.Lock()
	active = &subscriber{ch: ch, vendorID: vendorID, logger: logger}
	activeMu.Unlock()

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		mgr := ioHIDManagerCreate(cfAllocatorDefault, ioHIDOptionsNone)
		if rv := ioHIDManagerOpen(mgr, ioHIDOptionsNone); rv != ioReturnSuccess {
			logger.Warnw("Failed to open IOHIDManager", "return", rv)
			return
		}
		defer func() {
			ioHIDManagerClose(mgr, ioHIDOptionsNone)
			cfRelease(cfTypeRef(mgr))
		}()

		// Match every HID device; the callback filters by vendor.
		ioHIDManagerSetDeviceMatching(mgr, 0)

		rl := cfRunLoopGetCurrent()
		ioHIDManagerScheduleWithRunLoop(mgr, rl, **(**cfStringRef)(unsafe.Pointer(&runLoopDefaultMode)))
		ioHIDManagerRegisterMatchingCB(mgr, matchingCallback, nil)

		go func() {
			<-ctx.Done()
			cfRunLoopStop(rl)
		}()

		logger.Debugw("Listening for USB HID arrivals", "vendor", vendorID)
		cfRunLoopRun()

		activeMu.Lock()
		if active != nil && active.ch == ch {
			active = nil
		}
		activeMu.Unlock()
		logger.Debug("Stopped")
	}()

	return ch
}
