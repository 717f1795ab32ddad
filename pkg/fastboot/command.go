package fastboot

import "fmt"

// Command keywords from the fastboot protocol specification. Commands are
// sent as raw ASCII over bulk-OUT with no length prefix or terminator.
const (
	cmdGetvar           = "getvar:"
	cmdDownload         = "download:"
	cmdFlash            = "flash:"
	cmdErase            = "erase:"
	cmdContinue         = "continue"
	cmdReboot           = "reboot"
	cmdRebootBootloader = "reboot-bootloader"
)

func getvarCommand(name string) []byte {
	return []byte(cmdGetvar + name)
}

// downloadCommand announces a payload of size bytes. The length argument is
// exactly 8 lowercase hex digits, zero-padded.
func downloadCommand(size int) []byte {
	return []byte(fmt.Sprintf("%s%08x", cmdDownload, size))
}

func flashCommand(partition string) []byte {
	return []byte(cmdFlash + partition)
}

func eraseCommand(partition string) []byte {
	return []byte(cmdErase + partition)
}
